package models

import "time"

type Client struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	FirstName     string    `json:"firstName" gorm:"not null"`
	LastName      string    `json:"lastName" gorm:"not null"`
	Email         string    `json:"email" gorm:"index"`
	PhoneNumber   string    `json:"phoneNumber"`
	DriverLicense string    `json:"driverLicense"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
