package models

const (
	// DefaultPhoto is the avatar assigned on registration.
	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	// DefaultPhone pre-fills the profile with the Kenya country code.
	DefaultPhone = "+254"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Photo        string `json:"photo"`
	Phone        string `json:"phone"`
	Bio          string `gorm:"type:varchar(250)" json:"bio"`
	Role         string `gorm:"type:varchar(40);default:'user'" json:"role"`
}
