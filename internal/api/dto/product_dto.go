package dto

import (
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
)

type CreateProductDTO struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100"`
	Description string  `json:"description"`
	Price       string  `json:"price" validate:"required"`
	SalePrice   *string `json:"sale_price"`
	Stock       uint    `json:"stock"`
	Sku         string  `json:"sku" validate:"max=100"`
	IsActive    bool    `json:"is_active"`
	IsFeatured  bool    `json:"is_featured"`
}

type UpdateProductDTO struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100"`
	Description string  `json:"description"`
	Price       string  `json:"price" validate:"required"`
	SalePrice   *string `json:"sale_price"`
	Stock       uint    `json:"stock"`
	Sku         string  `json:"sku" validate:"max=100"`
	IsActive    bool    `json:"is_active"`
	IsFeatured  bool    `json:"is_featured"`
}

func (d CreateProductDTO) ToModel() (*model.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, err
	}
	product := &model.Product{
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       price,
		Stock:       d.Stock,
		Sku:         d.Sku,
		IsActive:    d.IsActive,
		IsFeatured:  d.IsFeatured,
	}
	if d.SalePrice != nil {
		salePrice, err := decimal.NewFromString(*d.SalePrice)
		if err != nil {
			return nil, err
		}
		product.SalePrice = &salePrice
	}
	return product, nil
}

func (d UpdateProductDTO) ApplyTo(product *model.Product) error {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return err
	}
	product.Name = d.Name
	product.Slug = d.Slug
	product.Description = d.Description
	product.Price = price
	product.Stock = d.Stock
	product.Sku = d.Sku
	product.IsActive = d.IsActive
	product.IsFeatured = d.IsFeatured
	product.SalePrice = nil
	if d.SalePrice != nil {
		salePrice, err := decimal.NewFromString(*d.SalePrice)
		if err != nil {
			return err
		}
		product.SalePrice = &salePrice
	}
	return nil
}
