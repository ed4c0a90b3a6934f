package admin

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"bo_backend_project/models"
	"bo_backend_project/services/marketdata"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardController serves the admin overview pages and collection actions
type DashboardController struct {
	db  *gorm.DB
	svc *marketdata.Service
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(db *gorm.DB, svc *marketdata.Service) *DashboardController {
	return &DashboardController{db: db, svc: svc}
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 720px; margin: 40px auto;">
  <h1>관리자 대시보드</h1>
  <ul>
    <li>게시판: %d개</li>
    <li>게시글: %d개</li>
    <li>일정: %d개</li>
    <li>수집 이력: %d건</li>
  </ul>
  <p>
    <a href="/admin/finance-data">금융위원회 데이터 확인</a> |
    <a href="/admin/logout">로그아웃</a>
  </p>
</body>
</html>`

// Dashboard shows the admin overview
// GET /admin
func (dc *DashboardController) Dashboard(c *gin.Context) {
	var boards, posts, schedules, runs int64
	dc.db.Model(&models.Board{}).Count(&boards)
	dc.db.Model(&models.Post{}).Count(&posts)
	dc.db.Model(&models.Schedule{}).Count(&schedules)
	dc.db.Model(&models.CollectedData{}).Count(&runs)

	page := fmt.Sprintf(dashboardHTML, boards, posts, schedules, runs)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// FinanceDataPage shows the latest collection log
// GET /admin/finance-data
func (dc *DashboardController) FinanceDataPage(c *gin.Context) {
	var entries []models.CollectedData
	dc.db.Order("created_at DESC").Limit(50).Find(&entries)

	rows := ""
	for _, e := range entries {
		rows += fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Type, e.Status, e.Message)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 920px; margin: 40px auto;">
  <h1>금융위원회 데이터 수집</h1>
  <form action="/admin/finance-data/run" method="post"><button type="submit">지금 수집</button></form>
  <table border="1" cellpadding="6" style="border-collapse: collapse; margin-top: 20px;">
    <tr><th>수집 시각</th><th>데이터셋</th><th>상태</th><th>메시지</th></tr>
    %s
  </table>
  <p><a href="/admin">대시보드로</a></p>
</body>
</html>`, rows)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// RunCollection collects every dataset now and records the outcome log
// POST /admin/finance-data/run
func (dc *DashboardController) RunCollection(c *gin.Context) {
	snapshot, err := dc.svc.FetchAll(c.Request.Context(), 1, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Data collection failed: " + err.Error()})
		return
	}

	RecordCollectionLog(dc.db, snapshot)
	c.Redirect(http.StatusSeeOther, "/admin/finance-data")
}

// RecordCollectionLog persists one status row per dataset outcome. Fetched
// payloads themselves are never stored.
func RecordCollectionLog(db *gorm.DB, snapshot *marketdata.Snapshot) {
	for ds, outcome := range snapshot.Outcomes {
		message := fmt.Sprintf("resolved=%s count=%d",
			outcome.ResolvedDate.Format("20060102"), outcome.Result.TotalCount)
		if outcome.Kind == marketdata.OutcomeTransportError && outcome.Err != nil {
			message = outcome.Err.Error()
			if len(message) > 255 {
				message = message[:255]
			}
		}

		entry := models.CollectedData{
			Type:      string(ds),
			Status:    string(outcome.Kind),
			Message:   message,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Printf("Failed to record collection log for %s: %v", ds, err)
		}
	}
}
