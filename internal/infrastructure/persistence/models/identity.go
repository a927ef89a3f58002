package models

import (
	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
)

// UserModel maps the HR directory user to the users table
type UserModel struct {
	BaseModel
	Email            string     `gorm:"size:200;not null;uniqueIndex"`
	FullName         string     `gorm:"size:200;not null"`
	EmployeeNumber   string     `gorm:"size:50"`
	Position         string     `gorm:"size:100"`
	AvatarURL        string     `gorm:"size:500"`
	ExternalSubject  string     `gorm:"size:200;index"`
	Role             string     `gorm:"size:20;not null;default:employee"`
	ManagerID        *uuid.UUID `gorm:"type:uuid;index"`
	BaseVacationDays int        `gorm:"not null;default:15"`
	IsActive         bool       `gorm:"not null;default:true;index"`
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:       m.BaseModel.ToDomain(),
		Email:            m.Email,
		FullName:         m.FullName,
		EmployeeNumber:   m.EmployeeNumber,
		Position:         m.Position,
		AvatarURL:        m.AvatarURL,
		ExternalSubject:  m.ExternalSubject,
		Role:             identity.Role(m.Role),
		ManagerID:        m.ManagerID,
		BaseVacationDays: m.BaseVacationDays,
		IsActive:         m.IsActive,
	}
}

// UserModelFromDomain converts domain User to UserModel
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:            u.Email,
		FullName:         u.FullName,
		EmployeeNumber:   u.EmployeeNumber,
		Position:         u.Position,
		AvatarURL:        u.AvatarURL,
		ExternalSubject:  u.ExternalSubject,
		Role:             string(u.Role),
		ManagerID:        u.ManagerID,
		BaseVacationDays: u.BaseVacationDays,
		IsActive:         u.IsActive,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
