package schedule

import "github.com/iliyamo/dance-studio-admin/internal/model"

// RenderedDays are the board columns, Monday through Friday.
var RenderedDays = []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday}

// dayColumn maps every weekday to its board column.  Saturday and Sunday
// have a column number but no column is drawn for them.
var dayColumn = map[model.Weekday]int{
	model.Monday:    1,
	model.Tuesday:   2,
	model.Wednesday: 3,
	model.Thursday:  4,
	model.Friday:    5,
	model.Saturday:  6,
	model.Sunday:    7,
}

func rendered(d model.Weekday) bool {
	for _, r := range RenderedDays {
		if r == d {
			return true
		}
	}
	return false
}

// Block positions one class occurrence on the board.  Offsets are
// percentages of the window height.
type Block struct {
	ClassID       string        `json:"class_id"`
	Day           model.Weekday `json:"day"`
	Column        int           `json:"column"`
	TopPercent    float64       `json:"top_percent"`
	HeightPercent float64       `json:"height_percent"`
}

// Place computes the block of class c on day.  ok is false when day is not
// one of the rendered columns.
func Place(c model.DanceClass, day model.Weekday, w Window) (Block, bool) {
	if !rendered(day) {
		return Block{}, false
	}
	start := ParseClock(c.StartTime)
	end := ParseClock(c.EndTime)
	total := float64(w.Total())
	return Block{
		ClassID:       c.ID,
		Day:           day,
		Column:        dayColumn[day],
		TopPercent:    float64(start-w.StartMinute) / total * 100,
		HeightPercent: float64(end-start) / total * 100,
	}, true
}

// Layout returns one block per (class, rendered day) pair, in class order
// and then in the order of each class's day list.  Days outside the five
// rendered columns are dropped.  Overlapping classes are not detected.
func Layout(classes []model.DanceClass, w Window) []Block {
	blocks := make([]Block, 0, len(classes)*2)
	for _, c := range classes {
		for _, d := range c.Days {
			if b, ok := Place(c, d, w); ok {
				blocks = append(blocks, b)
			}
		}
	}
	return blocks
}
