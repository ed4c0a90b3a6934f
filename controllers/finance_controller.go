package controllers

import (
	"net/http"
	"strconv"
	"time"

	"bo_backend_project/services/marketdata"

	"github.com/gin-gonic/gin"
)

// FinanceController exposes the external financial data collection service
type FinanceController struct {
	svc *marketdata.Service
}

// NewFinanceController creates a new finance controller
func NewFinanceController(svc *marketdata.Service) *FinanceController {
	return &FinanceController{svc: svc}
}

// FetchAll collects every configured dataset in one combined snapshot
// GET /api/v1/finance/fetch-data
func (fc *FinanceController) FetchAll(c *gin.Context) {
	pageNo, numOfRows := paging(c)

	snapshot, err := fc.svc.FetchAll(c.Request.Context(), pageNo, numOfRows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Data collection failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data collection completed",
		"data":    snapshot,
	})
}

// DatasetHandler returns a handler serving one dataset fetch
// GET /api/v1/finance/<dataset>
func (fc *FinanceController) DatasetHandler(ds marketdata.Dataset) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome, ok := fc.fetchDataset(c, ds)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": outcome})
	}
}

// StockQuotes serves the stock price dataset as typed quote records
// GET /api/v1/finance/stock-quotes
func (fc *FinanceController) StockQuotes(c *gin.Context) {
	outcome, ok := fc.fetchDataset(c, marketdata.DatasetStockPrice)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"outcome":       outcome.Kind,
		"resolved_date": outcome.ResolvedDate,
		"data":          marketdata.StockQuotes(outcome.Result),
	})
}

// fetchDataset runs one dataset fetch from query parameters. It writes the
// error response itself and reports ok=false when the caller should stop.
func (fc *FinanceController) fetchDataset(c *gin.Context, ds marketdata.Dataset) (*marketdata.FetchOutcome, bool) {
	pageNo, numOfRows := paging(c)

	req := marketdata.FetchRequest{
		Dataset:   ds,
		PageNo:    pageNo,
		NumOfRows: numOfRows,
		AutoRetry: c.DefaultQuery("auto_retry", "true") != "false",
	}

	if basDt := c.Query("bas_dt"); basDt != "" {
		date, err := time.Parse("20060102", basDt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bas_dt format, expected YYYYMMDD"})
			return nil, false
		}
		req.BaseDate = &date
	}

	outcome, err := fc.svc.Fetch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	if outcome.Kind == marketdata.OutcomeTransportError {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Provider unreachable: " + outcome.Err.Error(),
			"data":    outcome,
		})
		return nil, false
	}

	return outcome, true
}

func paging(c *gin.Context) (int, int) {
	pageNo, _ := strconv.Atoi(c.DefaultQuery("page_no", "1"))
	numOfRows, _ := strconv.Atoi(c.DefaultQuery("num_of_rows", "10"))
	if pageNo < 1 {
		pageNo = 1
	}
	if numOfRows < 1 || numOfRows > 100 {
		numOfRows = 10
	}
	return pageNo, numOfRows
}
