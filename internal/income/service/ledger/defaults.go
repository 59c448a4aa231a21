package ledger

const (
	coinPlaces  int32 = 10
	pricePlaces int32 = 10
	fiatPlaces  int32 = 2
)
