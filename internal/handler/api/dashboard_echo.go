package api

import (
	"time"

	"PulseWatch/internal/domain/models"
	"PulseWatch/internal/usecase"
	xhttp "PulseWatch/pkg/http"
	xlogger "PulseWatch/pkg/logger"
	xutil "PulseWatch/pkg/util"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler exposes the live pipeline state and its mutation
// operations to the presentation layer.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	state     *usecase.MarketStateStore
	feed      *usecase.AnomalyFeed
	rules     *usecase.AlertRuleEngine
	notify    *usecase.NotificationManager
	loader    *usecase.FeedLoader
	history   *usecase.AnomalyHistory
	collector *usecase.EventCollector
}

func NewDashboardEchoHandler(
	logger *xlogger.Logger,
	state *usecase.MarketStateStore,
	feed *usecase.AnomalyFeed,
	rules *usecase.AlertRuleEngine,
	notify *usecase.NotificationManager,
	loader *usecase.FeedLoader,
	history *usecase.AnomalyHistory,
	collector *usecase.EventCollector,
) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:    logger,
		state:     state,
		feed:      feed,
		rules:     rules,
		notify:    notify,
		loader:    loader,
		history:   history,
		collector: collector,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")

	g.GET("/market", h.GetMarketState)
	g.PUT("/market", h.SetMarket)
	g.PUT("/market/range", h.SetTimeRange)

	g.GET("/anomalies", h.ListAnomalies)
	g.GET("/anomalies/history", h.AnomalyHistory)

	g.GET("/rules", h.ListRules)
	g.POST("/rules", h.AddRule)
	g.POST("/rules/:id/toggle", h.ToggleRule)
	g.DELETE("/rules/:id", h.RemoveRule)

	g.GET("/notifications", h.ListNotifications)
	g.POST("/notifications", h.AddNotification)
	g.DELETE("/notifications/:id", h.RemoveNotification)

	g.GET("/feed", h.FeedSnapshot)
	g.POST("/feed/more", h.FeedLoadMore)
	g.POST("/feed/reset", h.FeedReset)
	g.POST("/feed/sentinel", h.FeedSentinel)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	status := "ok"
	connected := false
	if h.collector != nil {
		connected = h.collector.IsConnected()
	}
	if !connected {
		status = "degraded"
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":           status,
		"source_connected": connected,
	})
}

func (h *DashboardEchoHandler) GetMarketState(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.state.Get())
}

func (h *DashboardEchoHandler) SetMarket(c echo.Context) error {
	req := &models.SetMarketRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.state.SetMarket(models.Market(req.Market))
	return xhttp.SuccessResponse(c, h.state.Get())
}

func (h *DashboardEchoHandler) SetTimeRange(c echo.Context) error {
	req := &models.SetTimeRangeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.state.SetTimeRange(models.TimeRange(req.TimeRange))
	return xhttp.SuccessResponse(c, h.state.Get())
}

func (h *DashboardEchoHandler) ListAnomalies(c echo.Context) error {
	req := &models.ListAnomaliesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	events := h.feed.Filter(models.Market(req.Market), req.Type)
	return xhttp.ListResponse(c, events, int64(len(events)))
}

func (h *DashboardEchoHandler) AnomalyHistory(c echo.Context) error {
	req := &models.AnomalyHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// Default window follows the dashboard's selected time range.
	st := h.state.Get()
	defFrom, defTo := xutil.RangeWindow(string(st.TimeRange), time.Now())
	from := xhttp.ParseTimeDefault(req.From, defFrom)
	to := xhttp.ParseTimeDefault(req.To, defTo)

	events, err := h.history.Query(c.Request().Context(), models.Market(req.Market), from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

func (h *DashboardEchoHandler) ListRules(c echo.Context) error {
	rules := h.rules.List()
	return xhttp.ListResponse(c, rules, int64(len(rules)))
}

func (h *DashboardEchoHandler) AddRule(c echo.Context) error {
	req := &models.AddRuleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rule := h.rules.Add(models.AnomalyType(req.Type), req.Threshold)
	return xhttp.CreatedResponse(c, rule)
}

func (h *DashboardEchoHandler) ToggleRule(c echo.Context) error {
	if !h.rules.Toggle(c.Param("id")) {
		return xhttp.NotFoundResponse(c, "rule not found")
	}
	return xhttp.NoContentResponse(c)
}

func (h *DashboardEchoHandler) RemoveRule(c echo.Context) error {
	if !h.rules.Remove(c.Param("id")) {
		return xhttp.NotFoundResponse(c, "rule not found")
	}
	return xhttp.NoContentResponse(c)
}

func (h *DashboardEchoHandler) ListNotifications(c echo.Context) error {
	items := h.notify.List()
	return xhttp.ListResponse(c, items, int64(len(items)))
}

func (h *DashboardEchoHandler) AddNotification(c echo.Context) error {
	req := &models.AddNotificationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	id := h.notify.Add(req.Message, models.NotificationKind(req.Kind))
	return xhttp.CreatedResponse(c, map[string]string{"id": id})
}

func (h *DashboardEchoHandler) RemoveNotification(c echo.Context) error {
	// idempotent: removing an unknown or expired id is a no-op
	h.notify.Remove(c.Param("id"))
	return xhttp.NoContentResponse(c)
}

func (h *DashboardEchoHandler) FeedSnapshot(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.loader.Snapshot())
}

func (h *DashboardEchoHandler) FeedLoadMore(c echo.Context) error {
	if err := h.loader.LoadMore(c.Request().Context()); err != nil {
		h.logger.Error("feed load more error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, h.loader.Snapshot())
}

func (h *DashboardEchoHandler) FeedReset(c echo.Context) error {
	req := &models.ResetFeedRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	filters := models.FeedFilters{
		Sentiment: req.Sentiment,
		Category:  req.Category,
		From:      xhttp.ParseTimeDefault(req.From, time.Time{}),
		To:        xhttp.ParseTimeDefault(req.To, time.Time{}),
	}
	if err := h.loader.Reset(c.Request().Context(), filters); err != nil {
		h.logger.Error("feed reset error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, h.loader.Snapshot())
}

type sentinelRequest struct {
	Visible bool `json:"visible"`
}

func (h *DashboardEchoHandler) FeedSentinel(c echo.Context) error {
	req := &sentinelRequest{}
	if err := c.Bind(req); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	if err := h.loader.AutoTrigger(c.Request().Context(), req.Visible); err != nil {
		h.logger.Error("feed auto trigger error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, h.loader.Snapshot())
}
