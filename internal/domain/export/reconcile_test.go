package export_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplural/konyx-api/internal/domain/entity"
	"github.com/enplural/konyx-api/internal/domain/export"
)

func session(patient, rawDate, price string) entity.SessionRecord {
	return entity.SessionRecord{
		Patient: patient,
		RawDate: rawDate,
		Price:   decimal.RequireFromString(price),
	}
}

func contact(name, taxID string) entity.ContactRecord {
	return entity.ContactRecord{Name: name, TaxID: taxID}
}

func TestReconcile_JoinExactoPorNombreNormalizado(t *testing.T) {
	sessions := []entity.SessionRecord{session("ANA  PÉREZ", "05/03/2025", "50")}
	contacts := []entity.ContactRecord{contact("Ana Perez", "12345678Z")}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Matched, "tildes, mayúsculas y espacios no deben impedir el match")
	assert.Equal(t, "12345678Z", rows[0].Contact.TaxID)
}

// Left join: una sesión sin contacto se emite igualmente, con el contacto en
// cero, nunca se descarta.
func TestReconcile_SesionSinContactoSeEmite(t *testing.T) {
	sessions := []entity.SessionRecord{
		session("Ana Pérez", "05/03/2025", "50"),
		session("Luis Gómez", "07/03/2025", "60"),
	}
	contacts := []entity.ContactRecord{contact("Ana Pérez", "12345678Z")}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{})
	require.Len(t, rows, len(sessions), "el join nunca reduce el número de sesiones")
	assert.True(t, rows[0].Matched)
	assert.False(t, rows[1].Matched)
	assert.Empty(t, rows[1].Contact.TaxID)
}

// Sin fuzzy, un nombre mal escrito es un no-match.
func TestReconcile_SinFuzzyNoCorrigeErratas(t *testing.T) {
	sessions := []entity.SessionRecord{session("Ana Prez", "05/03/2025", "50")}
	contacts := []entity.ContactRecord{contact("Ana Pérez", "12345678Z")}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{})
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Matched)
}

func TestReconcile_FuzzyEmparejaErrataCercana(t *testing.T) {
	sessions := []entity.SessionRecord{session("Ana Prez", "05/03/2025", "50")}
	contacts := []entity.ContactRecord{contact("Ana Pérez", "12345678Z")}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{Fuzzy: true})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Matched)
	assert.Equal(t, "12345678Z", rows[0].Contact.TaxID)
}

// Los nombres cortos no intentan fuzzy: demasiado riesgo de falso positivo.
func TestReconcile_FuzzyRespetaLongitudMinima(t *testing.T) {
	sessions := []entity.SessionRecord{session("Ane", "05/03/2025", "50")}
	contacts := []entity.ContactRecord{contact("Ana", "12345678Z")}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{Fuzzy: true})
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Matched)
}

func TestReconcile_FuzzyRespetaDistanciaMaxima(t *testing.T) {
	sessions := []entity.SessionRecord{session("Carmen López", "05/03/2025", "50")}
	contacts := []entity.ContactRecord{contact("Luis Gómez", "87654321X")}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{Fuzzy: true})
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Matched, "nombres lejanos no deben emparejarse aunque fuzzy esté activo")
}

// Contactos duplicados por nombre: gana el primero en orden de registro.
func TestReconcile_ContactoDuplicadoGanaElPrimero(t *testing.T) {
	sessions := []entity.SessionRecord{session("Ana Pérez", "05/03/2025", "50")}
	contacts := []entity.ContactRecord{
		contact("Ana Pérez", "11111111A"),
		contact("ana perez", "22222222B"),
	}

	rows := export.Reconcile(sessions, contacts, export.ReconcileOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, "11111111A", rows[0].Contact.TaxID)
}
