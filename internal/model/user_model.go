package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserModel 用户模型
type UserModel struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`

	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email" binding:"required"`
	PhotoURL string `json:"photo_url" bson:"photoURL,omitempty"`

	// 角色与封禁状态，仅管理员可修改
	Role    UserRole `json:"role" bson:"role"`
	Blocked bool     `json:"blocked" bson:"blocked"`
}

// UserRole 用户角色
type UserRole string

const (
	RoleAdmin UserRole = "Admin" // 管理员，全局至多一个
	RoleUser  UserRole = "User"  // 普通用户
)

// Valid 角色是否合法
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CollectionName 自定义集合名
func (UserModel) CollectionName() string {
	return "users"
}
