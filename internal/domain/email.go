package domain

import "time"

// Email 表示投递到某个空间的一封邮件，写入后不可变。
type Email struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SpaceID     int64     `json:"space_id" gorm:"not null;index"`
	SenderEmail string    `json:"sender_email" gorm:"type:varchar(255);not null;index"`
	Subject     string    `json:"subject" gorm:"type:varchar(998)"`
	Body        string    `json:"body" gorm:"type:text"`
	ReceivedAt  time.Time `json:"received_at" gorm:"not null;index"`

	Space *EmailSpace `json:"-" gorm:"foreignKey:SpaceID;constraint:OnDelete:RESTRICT"`
}

// TableName 指定 GORM 表名
func (Email) TableName() string {
	return "emails"
}
