package models

// All lists every model managed by automigration.
func All() []interface{} {
	return []interface{}{
		&User{}, &Product{}, &Cart{}, &CartItem{}, &Address{}, &Order{}, &OrderItem{}, &Review{}, &Promotion{},
	}
}
