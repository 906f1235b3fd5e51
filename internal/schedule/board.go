package schedule

import (
	"strings"

	"github.com/iliyamo/dance-studio-admin/internal/model"
)

// NoStudentsEnrolled is shown in a block tooltip for an empty class.
const NoStudentsEnrolled = "No students enrolled"

const fallbackColor = "#6b7280"

var categoryColor = map[model.Category]string{
	model.CategoryFitness:     "#3b82f6",
	model.CategoryModernDance: "#a855f7",
	model.CategoryCompetition: "#ef4444",
	model.CategorySpecialized: "#10b981",
}

// Colors are the fill and border colours of a class block.
type Colors struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// CategoryColors returns the block colours for a category.  The
// background is the border colour at 20% alpha.
func CategoryColors(c model.Category) Colors {
	col, ok := categoryColor[c]
	if !ok {
		col = fallbackColor
	}
	return Colors{Background: col + "33", Border: col}
}

// BoardBlock is a layout block with everything the dashboard shows on and
// around it.
type BoardBlock struct {
	Block
	ClassName      string         `json:"class_name"`
	Category       model.Category `json:"category"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	InstructorName string         `json:"instructor_name"`
	InstructorFull string         `json:"instructor_full_name"`
	Colors         Colors         `json:"colors"`
	Occupancy      Occupancy      `json:"occupancy"`
	EnrolledNames  string         `json:"enrolled_names"`
}

// Board is the interactive weekly schedule.
type Board struct {
	Window    Window          `json:"window"`
	Days      []model.Weekday `json:"days"`
	TimeSlots []string        `json:"time_slots"`
	Blocks    []BoardBlock    `json:"blocks"`
}

// BuildBoard lays out classes and decorates each block.  A class whose
// instructor is missing gets empty instructor names.
func BuildBoard(classes []model.DanceClass, instructors []model.Instructor, students []model.Student, w Window) Board {
	byID := make(map[string]model.Instructor, len(instructors))
	for _, in := range instructors {
		byID[in.ID] = in
	}
	board := Board{
		Window:    w,
		Days:      RenderedDays,
		TimeSlots: TimeSlots(w),
		Blocks:    make([]BoardBlock, 0, len(classes)*2),
	}
	for _, c := range classes {
		occ := ComputeOccupancy(c, students)
		names := EnrolledNames(c.ID, students)
		in := byID[c.InstructorID]
		for _, d := range c.Days {
			b, ok := Place(c, d, w)
			if !ok {
				continue
			}
			board.Blocks = append(board.Blocks, BoardBlock{
				Block:          b,
				ClassName:      c.Name,
				Category:       c.Category,
				StartTime:      c.StartTime,
				EndTime:        c.EndTime,
				InstructorName: in.FirstName(),
				InstructorFull: in.Name,
				Colors:         CategoryColors(c.Category),
				Occupancy:      occ,
				EnrolledNames:  names,
			})
		}
	}
	return board
}

// EnrolledNames joins the names of the students enrolled in classID.
func EnrolledNames(classID string, students []model.Student) string {
	names := make([]string, 0)
	for _, s := range students {
		if s.IsEnrolledIn(classID) {
			names = append(names, s.Name)
		}
	}
	if len(names) == 0 {
		return NoStudentsEnrolled
	}
	return strings.Join(names, ", ")
}
