package domain

type Category struct {
	ID     int64   `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Color  *string `db:"color" json:"color"`
	UserID int64   `db:"user_id" json:"-"`
}

// CategoryInput is the client-supplied part of a category. Ownership is never taken from it.
type CategoryInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type Operation struct {
	ID         int64     `db:"id" json:"id"`
	Date       string    `db:"date" json:"date"` // YYYY-MM-DD
	Amount     float64   `db:"amount" json:"amount"`
	Comment    *string   `db:"comment" json:"comment"`
	CategoryID *int64    `db:"category_id" json:"category_id"`
	UserID     int64     `db:"user_id" json:"-"`
	Category   *Category `db:"-" json:"category"`
}

// OperationInput.Amount is a pointer so a missing amount can be told apart from zero.
type OperationInput struct {
	Date       string   `json:"date"`
	Amount     *float64 `json:"amount"`
	Comment    *string  `json:"comment"`
	CategoryID *int64   `json:"category_id"`
}

// DateRange bounds are inclusive; an empty bound is open.
type DateRange struct {
	Start string
	End   string
}

type Balance struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}
