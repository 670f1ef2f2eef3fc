package dto

import (
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
)

type ContactDTO struct {
	Name    string `json:"name" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email,max=100"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=255"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	Zip     string `json:"zip" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

type OrderLineDTO struct {
	ItemID    uint `json:"item_id"`
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type PlaceOrderDTO struct {
	UserID   *uint          `json:"user_id"`
	Shipping ContactDTO     `json:"shipping"`
	Billing  ContactDTO     `json:"billing"`
	Notes    string         `json:"notes"`
	Items    []OrderLineDTO `json:"items" validate:"required,min=1,dive"`
}

type EditOrderDTO struct {
	Status *string        `json:"status" validate:"omitempty,oneof=pending processing completed declined cancelled"`
	Items  []OrderLineDTO `json:"items" validate:"omitempty,dive"`
}

type DirectCheckoutDTO struct {
	UserID    uint `json:"user_id" validate:"required,gt=0"`
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

func (c ContactDTO) ToModel() model.Contact {
	return model.Contact{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		State:   c.State,
		Zip:     c.Zip,
		Country: c.Country,
	}
}

func ToOrderLines(items []OrderLineDTO) []service.OrderLineRequest {
	lines := make([]service.OrderLineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, service.OrderLineRequest{
			ItemID:    item.ItemID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
