package entity

// MergedRow es una sesión unida con su contacto (left join por nombre de
// paciente normalizado). Si no hay contacto, Contact queda en cero y la
// sesión se factura igualmente con la identidad que se conozca.
type MergedRow struct {
	Session SessionRecord
	Contact ContactRecord
	Matched bool // true si se encontró contacto para el paciente
}
