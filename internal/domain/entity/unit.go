package entity

import "time"

// Unit unidad de medida de un producto (caja, blíster, frasco, unidad).
type Unit struct {
	ID        string
	Name      string
	Symbol    string
	CreatedAt time.Time
}
