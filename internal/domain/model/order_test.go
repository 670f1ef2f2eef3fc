package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusIsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusDeclined,
		OrderStatusCancelled,
	}
	for _, s := range valid {
		require.True(t, s.IsValid(), "status %s should be valid", s)
	}

	require.False(t, OrderStatus("shipped").IsValid())
	require.False(t, OrderStatus("").IsValid())
}

func TestCanBeCancelled(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusCompleted, false},
		{OrderStatusDeclined, false},
		{OrderStatusCancelled, false},
	}

	for _, c := range cases {
		order := &Order{Status: c.status}
		require.Equal(t, c.want, order.CanBeCancelled(), "status %s", c.status)
	}
}

func TestCanTransitionTo(t *testing.T) {
	// 已完成訂單不可取消
	order := &Order{Status: OrderStatusCompleted}
	require.False(t, order.CanTransitionTo(OrderStatusCancelled))

	// 待處理訂單可取消
	order.Status = OrderStatusPending
	require.True(t, order.CanTransitionTo(OrderStatusCancelled))

	// 非取消的狀態轉移不設限
	order.Status = OrderStatusCompleted
	require.True(t, order.CanTransitionTo(OrderStatusProcessing))

	// 不合法狀態
	require.False(t, order.CanTransitionTo(OrderStatus("shipped")))
}

func TestCalculateSubtotal(t *testing.T) {
	item := &OrderItem{
		Price:    decimal.NewFromFloat(49.99),
		Quantity: 3,
	}

	require.True(t, decimal.NewFromFloat(149.97).Equal(item.CalculateSubtotal()))
}

func TestCalculateTotalAmount(t *testing.T) {
	order := &Order{
		OrderItems: []OrderItem{
			{Subtotal: decimal.NewFromFloat(100.0), Quantity: 2},
			{Subtotal: decimal.NewFromFloat(49.99), Quantity: 1},
		},
	}

	require.True(t, decimal.NewFromFloat(149.99).Equal(order.CalculateTotalAmount()))
	require.Equal(t, 3, order.ItemsCount())
}

func TestCalculateTotalAmount_Empty(t *testing.T) {
	order := &Order{}
	require.True(t, decimal.Zero.Equal(order.CalculateTotalAmount()))
}

func TestContactSnapshot(t *testing.T) {
	user := &User{
		UserName:    "Royce",
		UserEmail:   "royce@example.com",
		UserPhone:   "0912345678",
		UserAddress: "No.1 Test Rd.",
		UserCity:    "Taipei",
		UserCountry: "Taiwan",
	}

	contact := user.ContactSnapshot()
	require.Equal(t, user.UserName, contact.Name)
	require.Equal(t, user.UserEmail, contact.Email)
	require.Equal(t, user.UserPhone, contact.Phone)
	require.Equal(t, user.UserAddress, contact.Address)
	require.Equal(t, user.UserCity, contact.City)
	require.Equal(t, user.UserCountry, contact.Country)
}
