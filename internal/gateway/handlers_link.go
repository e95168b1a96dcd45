package gateway

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/betbot/relaygate/clob/signing"
	"github.com/betbot/relaygate/pkg/logger"
)

// handleAuthLink 凭证绑定：本地验签 → 上游派生/创建 API 密钥 → 入库。
// 重复绑定同一地址直接覆盖旧凭证，不报错
func (s *Server) handleAuthLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "请求体格式错误", err.Error())
		return
	}

	// 先在本地恢复签名人，不匹配则不打任何上游请求
	if err := signing.VerifyChallengeSignature(req.Address, req.Signature, req.Timestamp, req.Nonce); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "挑战签名校验失败", err.Error())
		return
	}

	cl, err := s.clobClient(req.Address)
	if err != nil {
		respondWithErr(c, err)
		return
	}

	l1 := signing.CreateL1Headers(req.Address, req.Signature, req.Timestamp, req.Nonce)
	creds, err := cl.CreateOrDeriveAPIKey(c.Request.Context(), l1)
	if err != nil {
		respondWithErr(c, err)
		return
	}

	if err := s.creds.Put(req.Address, creds); err != nil {
		respondWithErr(c, err)
		return
	}

	logger.Infof("[gateway] 凭证绑定完成: %s", strings.ToLower(req.Address))
	respondOK(c, gin.H{
		"address": strings.ToLower(req.Address),
		"apiKey":  creds.Key,
	})
}
