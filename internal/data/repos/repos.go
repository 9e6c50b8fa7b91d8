package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lunatwin-backend/internal/data/repos/auth"
	"github.com/yungbote/lunatwin-backend/internal/data/repos/user"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}
