package domain

// ScreeningType is a medical screening offered for free through campaign
// funding. Price is the agreed amount reserved per match.
type ScreeningType struct {
	ID    string
	Name  string
	Price float64
}
