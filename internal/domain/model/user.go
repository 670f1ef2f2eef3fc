package model

type User struct {
	UserID      uint    `gorm:"primaryKey" json:"user_id"`
	UserName    string  `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail   string  `gorm:"unique;not null;type:varchar(100)" json:"user_email"`
	UserPhone   string  `gorm:"type:varchar(50)" json:"user_phone"`
	UserAddress string  `gorm:"type:varchar(255)" json:"user_address"`
	UserCity    string  `gorm:"type:varchar(100)" json:"user_city"`
	UserState   string  `gorm:"type:varchar(100)" json:"user_state"`
	UserZip     string  `gorm:"type:varchar(20)" json:"user_zip"`
	UserCountry string  `gorm:"type:varchar(100)" json:"user_country"`
	Orders      []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	BaseModel
}

// ContactSnapshot 由用戶資料產生訂單聯絡資訊快照
func (u *User) ContactSnapshot() Contact {
	return Contact{
		Name:    u.UserName,
		Email:   u.UserEmail,
		Phone:   u.UserPhone,
		Address: u.UserAddress,
		City:    u.UserCity,
		State:   u.UserState,
		Zip:     u.UserZip,
		Country: u.UserCountry,
	}
}
