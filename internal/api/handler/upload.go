package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
	"github.com/vfg2006/sales-manager-api/pkg/utils"
)

const maxAvatarSize = 5 << 20 // 5MB

var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadAvatar recebe a imagem de perfil via multipart e grava no diretório
// de uploads. Administradores podem trocar o avatar de qualquer usuário;
// os demais, apenas o próprio.
func UploadAvatar(service authenticating.Authenticator, cfg config.Upload) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		userID, err := pathID(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de usuário inválido", nil)
			return
		}

		if userClaims.UserRoleID != domain.RoleAdmin && userClaims.UserID != userID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Sem permissão para alterar este avatar", nil)
			return
		}

		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Arquivo excede o tamanho máximo de 5MB", nil)
			return
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Campo de arquivo 'avatar' é obrigatório", nil)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedAvatarExtensions[ext] {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Formato de imagem não suportado", nil)
			return
		}

		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao preparar diretório de uploads", nil)
			return
		}

		id, err := utils.GenerateID()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar nome do arquivo", nil)
			return
		}

		filename := fmt.Sprintf("avatar_%d_%s%s", userID, id, ext)
		destination := filepath.Join(cfg.Dir, filename)

		out, err := os.Create(destination)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao salvar arquivo", nil)
			return
		}
		defer out.Close()

		if _, err := io.Copy(out, file); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao salvar arquivo", nil)
			return
		}

		avatarURL := "/uploads/" + filename
		if err := service.SetAvatar(userID, avatarURL); err != nil {
			handleAuthError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"avatar_url": avatarURL,
		})
	}
}
