package details

import (
	"internlink_backend/internals/configs"
	"internlink_backend/internals/helpers/llm"
	helperOSS "internlink_backend/internals/helpers/oss"
	"internlink_backend/internals/helpers/redisx"
	"internlink_backend/internals/helpers/webtext"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Deps: semua yang dibutuhkan service, dibangun sekali di cmd/serve.
// AI tidak aktif (tanpa key) atau Files nil → fitur terkait menjawab 503.
type Deps struct {
	Cfg      *configs.Config
	DB       *gorm.DB // restricted
	Elevated *gorm.DB
	Validate *validator.Validate
	Store    *redisx.Store
	AI       *llm.Client
	Files    helperOSS.Store
	Web      *webtext.Fetcher
}

