package admin

import (
	"log"
	"net/http"
	"time"

	"bo_backend_project/services/marketdata"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Admin pages and the socket share an origin; the session cookie is
	// checked by the surrounding middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// collectionEvent is one progress message sent while a collection runs
type collectionEvent struct {
	Dataset      string    `json:"dataset"`
	Outcome      string    `json:"outcome"`
	ResolvedDate string    `json:"resolved_date"`
	TotalCount   int       `json:"total_count"`
	Done         bool      `json:"done"`
	FetchedAt    time.Time `json:"fetched_at,omitempty"`
}

// StreamCollection runs a full collection and streams one event per dataset
// over a websocket as the outcomes land, then a final done event.
// GET /admin/finance-data/ws
func (dc *DashboardController) StreamCollection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snapshot, err := dc.svc.FetchAllProgress(c.Request.Context(), 1, 10,
		func(ds marketdata.Dataset, outcome *marketdata.FetchOutcome) {
			event := collectionEvent{
				Dataset:      string(ds),
				Outcome:      string(outcome.Kind),
				ResolvedDate: outcome.ResolvedDate.Format("20060102"),
				TotalCount:   outcome.Result.TotalCount,
			}
			if werr := conn.WriteJSON(event); werr != nil {
				log.Printf("Websocket write failed for %s: %v", ds, werr)
			}
		})
	if err != nil {
		conn.WriteJSON(gin.H{"error": err.Error()})
		return
	}

	RecordCollectionLog(dc.db, snapshot)
	conn.WriteJSON(collectionEvent{Done: true, FetchedAt: snapshot.FetchedAt})
}
