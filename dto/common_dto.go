package dto

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse representa una respuesta exitosa
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination son los parámetros de página ya validados
// Page arranca en 1
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Offset calcula cuántas filas saltear: (page-1)*pageSize
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit es la cantidad máxima de filas de la página
func (p Pagination) Limit() int {
	return p.PageSize
}
