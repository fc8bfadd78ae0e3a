package models

type Contractor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Trade string `json:"trade"`
}
