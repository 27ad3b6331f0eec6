package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chewxy/math32"
	"github.com/gin-gonic/gin"
)

// errorBody is the literal the browser client recognizes as a failed
// sensor reading; it must never be a number.
const errorBody = "Error"

// formatTemp renders a temperature with one decimal, the resolution the
// sensor actually delivers.
func formatTemp(t float32) string {
	return strconv.FormatFloat(float64(t), 'f', 1, 32)
}

// temp performs a sensor reading and returns it as plain text. A failed
// reading answers with the Error literal, still 200: the client treats
// the body, not the status, as the signal.
func (h *Handler) temp(c *gin.Context) {
	t := h.services.Read()
	if math32.IsNaN(t) {
		c.String(http.StatusOK, errorBody)
		return
	}
	h.services.Check(t)
	c.String(http.StatusOK, formatTemp(t))
}

// saveThresholds persists operator bounds passed as ?lower=&upper=.
// Missing or malformed params mean "no update requested"; the request
// still succeeds with an empty response. Values go to the store verbatim;
// the browser client normalizes ordering before submitting.
func (h *Handler) saveThresholds(c *gin.Context) {
	lowerStr, hasLower := c.GetQuery("lower")
	upperStr, hasUpper := c.GetQuery("upper")
	if hasLower && hasUpper {
		lower, errLower := strconv.ParseFloat(lowerStr, 32)
		upper, errUpper := strconv.ParseFloat(upperStr, 32)
		if errLower == nil && errUpper == nil {
			outcome, err := h.services.Save(float32(lower), float32(upper))
			if err != nil {
				if h.log != nil {
					h.log.Errorw("thresholds_save_failed", "err", err)
				}
			} else if h.log != nil {
				h.log.Infow("thresholds received", "lower", lower, "upper", upper, "outcome", outcome.String())
			}
		}
	}

	// Every request gets a response, even a no-op.
	c.Status(http.StatusOK)
}

// reset reverts the range to the compiled-in defaults.
func (h *Handler) reset(c *gin.Context) {
	if _, err := h.services.Reset(); err != nil && h.log != nil {
		h.log.Errorw("factory_reset_failed", "err", err)
	}
	c.Status(http.StatusOK)
}

// reboot acknowledges first, then asks main to restart the process. The
// restart path drains in-flight responses before re-exec, so the empty
// 200 always reaches the client.
func (h *Handler) reboot(c *gin.Context) {
	c.Status(http.StatusOK)
	if h.log != nil {
		h.log.Infow("reboot requested")
	}
	if h.restart != nil {
		h.restart()
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"session": h.session,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
