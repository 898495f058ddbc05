package entity

// ContactRecord representa el perfil fiscal y de contacto de un paciente,
// tal como viene en una fila del registro de contactos. Solo el enriquecedor
// muta campos, y únicamente los que estén vacíos.
type ContactRecord struct {
	Name       string
	TaxID      string
	Address    string
	PostalCode string
	City       string
	Province   string
	Country    string
	Email      string
	Phone      string
}
