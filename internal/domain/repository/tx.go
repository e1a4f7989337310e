package repository

import "context"

// TxRepos repositorios atados a una misma transacción. Toda mutación de
// stock (venta, aprobación de recepción o baja, cancelación de venta) se
// ejecuta como un único read-modify-write atómico a través de ellos.
type TxRepos struct {
	Products      ProductRepository
	Lots          LotRepository
	Receptions    ReceptionRepository
	WriteOffs     WriteOffRepository
	Orders        OrderRepository
	Sales         SaleRepository
	Notifications NotificationRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD: Commit si fn devuelve
// nil, Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
