package commands

import (
	"locationsguard/models"

	"gorm.io/gorm"
)

// ReservationCommand is one write against the reservations table.
type ReservationCommand interface {
	Execute() error
}

type CreateReservationCommand struct {
	reservation *models.Reservation
	db          *gorm.DB
}

func NewCreateReservationCommand(reservation *models.Reservation, db *gorm.DB) *CreateReservationCommand {
	return &CreateReservationCommand{
		reservation: reservation,
		db:          db,
	}
}

func (c *CreateReservationCommand) Execute() error {
	return c.db.Omit("Automobile", "Client").Create(c.reservation).Error
}

type UpdateReservationCommand struct {
	reservation *models.Reservation
	db          *gorm.DB
}

func NewUpdateReservationCommand(reservation *models.Reservation, db *gorm.DB) *UpdateReservationCommand {
	return &UpdateReservationCommand{
		reservation: reservation,
		db:          db,
	}
}

func (c *UpdateReservationCommand) Execute() error {
	return c.db.Omit("Automobile", "Client").Save(c.reservation).Error
}

type DeleteReservationCommand struct {
	reservationID uint
	db            *gorm.DB
}

func NewDeleteReservationCommand(reservationID uint, db *gorm.DB) *DeleteReservationCommand {
	return &DeleteReservationCommand{
		reservationID: reservationID,
		db:            db,
	}
}

func (c *DeleteReservationCommand) Execute() error {
	return c.db.Delete(&models.Reservation{}, c.reservationID).Error
}

// Batch runs commands in order inside one transaction.
type Batch struct {
	db       *gorm.DB
	commands func(tx *gorm.DB) []ReservationCommand
}

func NewBatch(db *gorm.DB, commands func(tx *gorm.DB) []ReservationCommand) *Batch {
	return &Batch{db: db, commands: commands}
}

func (b *Batch) Execute() error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		for _, cmd := range b.commands(tx) {
			if err := cmd.Execute(); err != nil {
				return err
			}
		}
		return nil
	})
}
