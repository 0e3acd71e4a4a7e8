package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/yelinaung/quickrate/internal/exchange"
	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/models"
	"gitlab.com/yelinaung/quickrate/internal/view"
)

const pageTemplate = "page.html.tmpl"

// handlePage mounts a view bound to the request context and renders it only
// after the fetch has settled, so served pages are never in the loading
// state. The template's loading branch covers models rendered earlier.
func (s *Server) handlePage(c *gin.Context) {
	ctx := c.Request.Context()

	v := view.New(s.pageFetcher, view.WithObserver(s.observer), view.WithName(RequestID(c)))
	defer v.Close()

	v.Mount(ctx)
	if err := v.Wait(ctx); err != nil {
		// Client went away; nothing to render.
		c.Status(http.StatusRequestTimeout)
		return
	}

	v.SetAmount(c.Query("amount"))
	if code := c.Query("currency"); code != "" {
		v.SetCurrency(code)
	}

	c.HTML(http.StatusOK, pageTemplate, v.Model())
}

func (s *Server) handleRates(c *gin.Context) {
	searchDate := c.Query("searchdate")
	if err := exchange.ValidateSearchDate(searchDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := s.source.FetchRates(c.Request.Context(), searchDate)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Status(http.StatusRequestTimeout)
			return
		}
		logger.Log.Error().
			Err(err).
			Str("request_id", RequestID(c)).
			Str("searchdate", searchDate).
			Msg("Failed to fetch upstream exchange rates")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch exchange rates"})
		return
	}

	if records == nil {
		records = []models.ExchangeRateRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
