package catalog

import "time"

type ProductType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Logo        *string   `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type File struct {
	ID           int64  `json:"id"`
	EntityType   string `json:"entityType,omitempty"`
	EntityID     int64  `json:"entityId,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

// AdditionProduct is an add-on that can be attached to a line item.
// Price is per unit in minor currency units; Count is how many units are attached.
type AdditionProduct struct {
	AdditionID        int64  `json:"additionId"`
	AdditionProductID int64  `json:"additionProductId"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	Count             int    `json:"count"`
}

// Total is the cost of the add-on: Price x Count.
func (a AdditionProduct) Total() int64 {
	return a.Price * int64(a.Count)
}

type Addition struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Products []AdditionProduct `json:"products"`
}

type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Price         int64      `json:"price"`
	Stock         int        `json:"stock"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status,omitempty"`
	ProductTypeID int64      `json:"productTypeId,omitempty"`
	Files         []File     `json:"files,omitempty"`
	Additions     []Addition `json:"additions,omitempty"`
}
