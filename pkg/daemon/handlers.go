package daemon

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thermoreg/thermoreg/pkg/config"
	"github.com/thermoreg/thermoreg/pkg/events"
	"github.com/thermoreg/thermoreg/pkg/types"
	"github.com/thermoreg/thermoreg/pkg/version"
)

const (
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = time.Hour
)

func getStatus(c *gin.Context) {
	status := &types.RegulatorStatus{
		Snapshot:        drv.Snapshot(),
		Cycles:          drv.Cycles(),
		TickIntervalMS:  int(conf.TickInterval().Milliseconds()),
		TicksLastMinute: tickRecorder.CountSince(time.Minute),
	}

	if reseeder != nil {
		expr, next, _ := reseeder.Status()
		status.ReseedSchedule = expr
		if !next.IsZero() {
			status.NextReseed = &next
		}
	}

	c.IndentedJSON(http.StatusOK, status)
}

func getSnapshot(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, drv.Snapshot())
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func setTickInterval(c *gin.Context) {
	var ms int
	if err := c.BindJSON(&ms); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	d := time.Duration(ms) * time.Millisecond
	if d < minTickInterval || d > maxTickInterval {
		err := fmt.Errorf("tick interval must be between %v and %v, got %v", minTickInterval, maxTickInterval, d)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetTickInterval(d)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set tick interval to %v", d)

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set tick interval to %v", d))
}

func postReset(c *gin.Context) {
	reseed("manual")
	c.IndentedJSON(http.StatusCreated, "simulation reseeded")
}

func setReseedSchedule(c *gin.Context) {
	var expr string
	if err := c.BindJSON(&expr); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := reseeder.Schedule(expr); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetReseedSchedule(expr)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	msg := fmt.Sprintf("set reseed schedule to %q", expr)
	if expr == "" {
		msg = "disabled reseed schedule"
	}
	logrus.Info(msg)

	c.IndentedJSON(http.StatusCreated, msg)
}

func postSkipReseed(c *gin.Context) {
	if err := reseeder.Skip(); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	_, next, _ := reseeder.Status()
	msg := fmt.Sprintf("next reseed skipped; now scheduled for %s", next.Format(time.RFC1123))
	logrus.Info(msg)

	c.IndentedJSON(http.StatusCreated, msg)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// reseed abandons the current simulation and starts over from a fresh
// random snapshot.
func reseed(reason string) {
	simLoopLock.Lock()
	drv.Reset()
	simLoopLock.Unlock()

	logrus.WithField("reason", reason).Info("simulation reseeded")
	sseHub.Publish(events.Reseed, events.ReseedEvent{
		Reason: reason,
		Ts:     time.Now().Unix(),
	})
}
