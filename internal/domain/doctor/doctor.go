package doctor

import "context"

type Doctor struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string `gorm:"column:full_name;type:varchar(255);uniqueIndex;not null" json:"fullname"`
	Expertise string `gorm:"column:expertise;type:varchar(255);not null" json:"expertise"`
}

func (Doctor) TableName() string {
	return "doctors"
}

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetByFullName(ctx context.Context, fullName string) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)

	// Delete cascades to the doctor's appointments at the store level.
	Delete(ctx context.Context, id int64) (bool, error)
}
