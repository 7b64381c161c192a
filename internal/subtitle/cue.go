package subtitle

import "fmt"

// Cue represents one merged on-screen subtitle interval
type Cue struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Midpoint returns the temporal center of the cue
func (c *Cue) Midpoint() float64 {
	return (c.StartTime + c.EndTime) / 2
}

// Validate checks if the Cue has valid values
func (c *Cue) Validate() error {
	if c.Text == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if c.StartTime < 0 {
		return fmt.Errorf("start_time cannot be negative")
	}
	if c.EndTime < c.StartTime {
		return fmt.Errorf("end_time must not be before start_time")
	}
	return nil
}
