package domain

import (
	"github.com/yungbote/lunatwin-backend/internal/domain/auth"
	"github.com/yungbote/lunatwin-backend/internal/domain/chat"
	"github.com/yungbote/lunatwin-backend/internal/domain/twin"
	"github.com/yungbote/lunatwin-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = auth.UserToken

	ChatMessage = chat.ChatMessage
	ChatRole    = chat.Role

	Twin           = twin.Twin
	Lifestyle      = twin.Lifestyle
	LifestylePatch = twin.LifestylePatch
	Indicators     = twin.Indicators
	Persona        = twin.Persona
	BasicInfo      = twin.BasicInfo
	HistoryPoint   = twin.HistoryPoint
)

var (
	ErrInvalidBasicInfo = twin.ErrInvalidBasicInfo
	DefaultLifestyle    = twin.DefaultLifestyle
)
