package domain

import "time"

// DonationStatus статус записи о донации
type DonationStatus string

const (
	DonationStatusScheduled DonationStatus = "scheduled"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

// BloodTypes восемь допустимых групп крови
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// IsValidBloodType проверяет, что значение входит в фиксированный перечень
func IsValidBloodType(t string) bool {
	for _, bt := range BloodTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// Donation запись о запланированной сдаче крови
type Donation struct {
	ID                string         `json:"id" bson:"_id,omitempty"`
	UserID            string         `json:"user_id" bson:"user_id"`
	Name              string         `json:"name" bson:"name"`
	Email             string         `json:"email" bson:"email"`
	Phone             string         `json:"phone" bson:"phone"`
	BloodType         string         `json:"blood_type" bson:"blood_type"`
	DonationDate      time.Time      `json:"donation_date" bson:"donation_date"`
	MedicalConditions string         `json:"medical_conditions,omitempty" bson:"medical_conditions,omitempty"`
	Status            DonationStatus `json:"status" bson:"status"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
}

// Medicine товар в каталоге медикаментов
type Medicine struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int64     `json:"stock" bson:"stock"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// User зарегистрированный пользователь
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Image метаданные загруженного изображения
type Image struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	URL       string `json:"url" bson:"url"`
	Name      string `json:"name" bson:"name"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}
