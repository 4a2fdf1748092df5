package features

// Defaults are the fill values for optional attributes a record omits. They
// are declared once here and shared by every caller of Build.
type Defaults struct {
	OS            string  `yaml:"os"`
	Network       string  `yaml:"network"`
	Color         string  `yaml:"color"`
	CameraCount   int     `yaml:"camera_count"`
	ScreenSize    float64 `yaml:"screen_size"`
	SellerRating  float64 `yaml:"seller_rating"` // 0 means "no rating": the composite score loses its seller term
	TradeInValue  float64 `yaml:"trade_in_value"`
	ReleaseYear   int     `yaml:"release_year"`
	ReferenceYear int     `yaml:"reference_year"`
}

// StandardDefaults returns the defaults the extended model was trained with.
func StandardDefaults() Defaults {
	return Defaults{
		OS:            "Android 12",
		Network:       "5G",
		Color:         "Black",
		CameraCount:   3,
		ScreenSize:    6.1,
		SellerRating:  0,
		TradeInValue:  0,
		ReleaseYear:   2020,
		ReferenceYear: 2025,
	}
}
