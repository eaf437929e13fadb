package dto

// CreateListingRequest es lo que envía un host para publicar un espacio
type CreateListingRequest struct {
	NumPeople int      `json:"num_people" binding:"required,gt=0"`
	Country   string   `json:"country" binding:"required,max=256"`
	City      string   `json:"city" binding:"required,max=256"`
	Price     *float64 `json:"price" binding:"required,gte=0"`
}

// CreateListingResponse devuelve el ID asignado
type CreateListingResponse struct {
	Message    string `json:"message"`
	InsertedID uint   `json:"insertedID"`
}

// ListingQuery son los filtros de búsqueda de disponibilidad
// Las fechas se validan con la regla "isodate" registrada en validation
type ListingQuery struct {
	DateFrom string `form:"date_from" binding:"required,isodate"`
	DateTo   string `form:"date_to" binding:"required,isodate"`
	NumGuest int    `form:"num_guest" binding:"required,gt=0"`
	Country  string `form:"country" binding:"required"`
	City     string `form:"city" binding:"required"`
	Page     int    `form:"page,default=1" binding:"gte=1"`
	PageSize int    `form:"pageSize,default=10" binding:"gte=1,lte=100"`
}

// Pagination devuelve la página pedida
func (q ListingQuery) Pagination() Pagination {
	return Pagination{Page: q.Page, PageSize: q.PageSize}
}
