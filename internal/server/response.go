package server

import (
	"net/http"

	"gohan-planner/internal/apperr"

	"github.com/gin-gonic/gin"
)

const (
	msgGenerationFailed = "献立の生成に失敗しました"
	msgBadRequest       = "リクエストが不正です"
	msgUnauthorized     = "ログインが必要です"
	msgNoPlan           = "献立がまだありません"
	msgStorageFailed    = "データの保存に失敗しました"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// respondAppError maps err onto a status by its kind. fallback prefixes the
// message of failures that are not already user-facing.
func respondAppError(c *gin.Context, err error, fallback string) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	msg := err.Error()
	switch kind {
	case apperr.KindConfiguration, apperr.KindAuth, apperr.KindNotFound, apperr.KindInvalid:
	default:
		msg = fallback + ": " + msg
	}
	respondError(c, status, msg)
}

// generationErrorMessage renders a generation failure the way the plan page
// and the API show it. A missing credential is shown as is.
func generationErrorMessage(err error) string {
	if apperr.Is(err, apperr.KindConfiguration) {
		return err.Error()
	}
	return msgGenerationFailed + ": " + err.Error()
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
