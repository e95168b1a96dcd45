package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betbot/relaygate/pkg/logger"
)

// handleWhalesList 最近的大额交易（直接读库）
func (s *Server) handleWhalesList(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	trades, err := s.whales.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondWithErr(c, err)
		return
	}
	respondOK(c, trades)
}

// handleWhalesStats 滚动窗口统计，每次全量重算
func (s *Server) handleWhalesStats(c *gin.Context) {
	window := time.Duration(s.cfg.Whale.WindowHours) * time.Hour

	stats, err := s.whales.ComputeStats(c.Request.Context(), window)
	if err != nil {
		respondWithErr(c, err)
		return
	}
	respondOK(c, stats)
}

// handleWhalesSync 手动触发一轮聚合；已有一轮在跑时直接拒绝
func (s *Server) handleWhalesSync(c *gin.Context) {
	if !s.syncMu.TryLock() {
		respondError(c, http.StatusConflict, CodeValidation, "已有一轮聚合在执行中", "")
		return
	}
	defer s.syncMu.Unlock()

	cutoff := time.Now().Add(-time.Duration(s.cfg.Whale.WindowHours) * time.Hour)
	result, err := s.pipeline.Run(c.Request.Context(), cutoff)
	if err != nil {
		logger.Errorf("[gateway] 手动聚合失败: %v", err)
		respondWithErr(c, err)
		return
	}
	respondOK(c, result)
}
