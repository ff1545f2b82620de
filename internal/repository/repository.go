package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Donor        DonorRepository
	BloodRequest BloodRequestRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Donor:        NewDonorRepository(db),
		BloodRequest: NewBloodRequestRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
