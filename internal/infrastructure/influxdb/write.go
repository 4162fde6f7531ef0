package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteReading mirrors one ingested reading as a point in the
// "readings" measurement, tagged by sensor id. Non-blocking.
func (c *Client) WriteReading(sensorID int64, timestamp float64, v1, v2, v3 float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"readings",
		map[string]string{
			"sensor_id": strconv.FormatInt(sensorID, 10),
		},
		map[string]interface{}{
			"v1": v1,
			"v2": v2,
			"v3": v3,
		},
		epochToTime(timestamp),
	)
	c.writeAPI.WritePoint(point)
}

// WriteAnomalyScore mirrors a persisted anomaly into the "anomalies"
// measurement for alert dashboards.
func (c *Client) WriteAnomalyScore(sensorID int64, timestamp, score float64, explanation string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"anomalies",
		map[string]string{
			"sensor_id": strconv.FormatInt(sensorID, 10),
		},
		map[string]interface{}{
			"score":       score,
			"explanation": explanation,
		},
		epochToTime(timestamp),
	)
	c.writeAPI.WritePoint(point)
}

// epochToTime converts fractional epoch seconds to time.Time.
func epochToTime(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
