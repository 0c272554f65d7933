package model

import "time"

// AttendanceEntry records a student's presence for one day. At most one
// row exists per (student, date); re-recording the same day overwrites
// the previous value.
type AttendanceEntry struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	ClassroomID int       `json:"classroom_id"`
	Date        time.Time `json:"date"`
	IsPresent   bool      `json:"is_present"`
	RecordedBy  int       `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PerformanceEntry is an append-only score note for a student. Multiple
// entries per day are permitted.
type PerformanceEntry struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	ClassroomID int       `json:"classroom_id"`
	Date        time.Time `json:"date"`
	Score       int       `json:"score"`
	Note        string    `json:"note,omitempty"`
	RecordedBy  int       `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttendanceRecord is one (student, presence) pair inside a
// RecordAttendanceRequest.
type AttendanceRecord struct {
	StudentID int  `json:"student_id" binding:"required,min=1"`
	IsPresent bool `json:"is_present"`
}

// RecordAttendanceRequest is the payload for recording a day's attendance.
type RecordAttendanceRequest struct {
	Date    string             `json:"date" binding:"required,datetime=2006-01-02"`
	Records []AttendanceRecord `json:"records" binding:"required,min=1,dive"`
}

// AttendanceSheetEntry is a roster row merged with the stored attendance
// for one day. Students with no stored row default to present.
type AttendanceSheetEntry struct {
	StudentID int    `json:"student_id"`
	Name      string `json:"name"`
	IsPresent bool   `json:"is_present"`
	Recorded  bool   `json:"recorded"`
}

// RecordPerformanceRequest is the payload for appending a performance entry.
type RecordPerformanceRequest struct {
	StudentID int    `json:"student_id" binding:"required,min=1"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Score     int    `json:"score" binding:"min=0,max=100"`
	Note      string `json:"note" binding:"omitempty,max=1000"`
}
