package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// ReportEvidence 举报证据材料
// - 一条举报可附带多个证据文件，文件本体存于 COS，此处仅存访问地址与对象键
type ReportEvidence struct {
	entities.BaseModel

	// 所属举报ID
	ReportID string `gorm:"type:char(12);not null;index" json:"report_id"`

	// 证据文件的公开访问 URL
	MediaURL string `gorm:"type:varchar(512);not null" json:"media_url"`

	// COS 对象键，删除对象时使用
	ObjectKey string `gorm:"type:varchar(512);not null" json:"object_key"`

	// 展示顺序，从 0 开始
	DisplayOrder int `gorm:"not null;default:0" json:"display_order"`
}
