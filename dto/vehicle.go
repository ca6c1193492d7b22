package dto

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=512"`
}

type VehicleRequest struct {
	Brand        string   `json:"brand" validate:"required,max=64"`
	Model        string   `json:"model" validate:"required,max=64"`
	Year         int      `json:"year" validate:"required,gte=1950,lte=2100"`
	DailyRate    float64  `json:"dailyRate" validate:"required,gt=0"`
	CategoryID   uint     `json:"categoryId" validate:"required"`
	FuelType     string   `json:"fuelType" validate:"omitempty,oneof=GASOLINE DIESEL HYBRID ELECTRIC"`
	Transmission string   `json:"transmission" validate:"omitempty,oneof=MANUAL AUTOMATIC"`
	Mileage      int      `json:"mileage" validate:"gte=0"`
	Features     []string `json:"features"`
	Images       []string `json:"images" validate:"dive,url"`
	Available    *bool    `json:"available"`
}

type VehicleAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type VehicleFilter struct {
	PageQuery
	CategoryID   uint   `form:"categoryId"`
	Available    *bool  `form:"available"`
	Brand        string `form:"brand"`
	FuelType     string `form:"fuelType"`
	Transmission string `form:"transmission"`
}

type ScoredVehicle struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type ClientRequest struct {
	FirstName     string `json:"firstName" validate:"required,max=64"`
	LastName      string `json:"lastName" validate:"required,max=64"`
	Email         string `json:"email" validate:"omitempty,email"`
	PhoneNumber   string `json:"phoneNumber" validate:"omitempty,e164|numeric"`
	DriverLicense string `json:"driverLicense" validate:"max=32"`
	Address       string `json:"address" validate:"max=256"`
}

type ClientFilter struct {
	PageQuery
	Search string `form:"search"`
}
