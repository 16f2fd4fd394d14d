package records

import (
	"strings"
	"time"
)

type Teacher struct {
	ID        int64  `json:"id"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
	Specialty string `json:"specialty,omitempty"`
}

type School struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type ClassStatus string

const (
	ClassScheduled ClassStatus = "Scheduled"
	ClassCompleted ClassStatus = "Completed"
	ClassCancelled ClassStatus = "Cancelled"
)

// ParseClassStatus matches the known statuses case-insensitively. Anything else is
// kept verbatim so it is still visible to the operator.
func ParseClassStatus(value string) ClassStatus {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "scheduled":
		return ClassScheduled
	case "completed":
		return ClassCompleted
	case "cancelled", "canceled":
		return ClassCancelled
	}
	return ClassStatus(strings.TrimSpace(value))
}

type ScheduledClass struct {
	ID        int64       `json:"id"`
	Subject   string      `json:"subject"`
	Date      time.Time   `json:"date"`
	StartTime string      `json:"start_time,omitempty"`
	EndTime   string      `json:"end_time,omitempty"`
	TeacherID int64       `json:"teacher_id"`
	Room      string      `json:"room,omitempty"`
	Status    ClassStatus `json:"status"`
	Capacity  int         `json:"capacity"`
	Enrolled  int         `json:"enrolled"`
}

type Student struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	EnrollmentCode string `json:"enrollment_code,omitempty"`
	SchoolID       int64  `json:"school_id,omitempty"`
	Program        string `json:"program,omitempty"`
	Accepted       bool   `json:"accepted"`
}

type ActivityType string

const (
	ActivityVisited ActivityType = "Visited"
	ActivityInvited ActivityType = "Invited"
	ActivityDigital ActivityType = "Digital"
)

// ParseActivityType maps known spellings onto the canonical types and keeps unknown
// text as-is. Empty input stays empty.
func ParseActivityType(value string) ActivityType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "visited", "visit":
		return ActivityVisited
	case "invited", "invitation":
		return ActivityInvited
	case "digital", "online":
		return ActivityDigital
	}
	return ActivityType(strings.TrimSpace(value))
}

type Activity struct {
	ID              int64        `json:"id"`
	Type            ActivityType `json:"type"`
	Date            time.Time    `json:"date"`
	TeacherID       int64        `json:"teacher_id"`
	SchoolID        int64        `json:"school_id,omitempty"`
	StudentsReached int          `json:"students_reached"`
	Programs        []string     `json:"programs"`
	Notes           string       `json:"notes,omitempty"`
	EvidenceURLs    string       `json:"evidence_urls,omitempty"`
}

type Grade struct {
	ID        int64     `json:"id"`
	ClassID   int64     `json:"class_id"`
	StudentID int64     `json:"student_id"`
	Score     *float64  `json:"score"`
	Date      time.Time `json:"date"`
}

type AttendanceRecord struct {
	ID                int64     `json:"id"`
	ClassID           int64     `json:"class_id"`
	TeacherID         int64     `json:"teacher_id"`
	Date              time.Time `json:"date"`
	PresentStudentIDs []int64   `json:"present_student_ids"`
	TotalStudents     int       `json:"total_students"`
}

func DecodeTeachers(raws []Raw) []Teacher {
	out := make([]Teacher, 0, len(raws))
	for _, r := range raws {
		out = append(out, Teacher{
			ID:        r.ID(EntityTeacher, FieldID),
			GivenName: r.String(EntityTeacher, FieldName),
			Surname:   r.String(EntityTeacher, FieldSurname),
			Specialty: r.String(EntityTeacher, FieldSpecialty),
		})
	}
	return out
}

func DecodeSchools(raws []Raw) []School {
	out := make([]School, 0, len(raws))
	for _, r := range raws {
		out = append(out, School{
			ID:   r.ID(EntitySchool, FieldID),
			Name: r.String(EntitySchool, FieldName),
			Code: r.String(EntitySchool, FieldCode),
		})
	}
	return out
}

func DecodeClasses(raws []Raw) []ScheduledClass {
	out := make([]ScheduledClass, 0, len(raws))
	for _, r := range raws {
		out = append(out, ScheduledClass{
			ID:        r.ID(EntityClass, FieldID),
			Subject:   r.String(EntityClass, FieldSubject),
			Date:      r.Time(EntityClass, FieldDate),
			StartTime: r.String(EntityClass, FieldStartTime),
			EndTime:   r.String(EntityClass, FieldEndTime),
			TeacherID: r.ID(EntityClass, FieldTeacherID),
			Room:      r.String(EntityClass, FieldRoom),
			Status:    ParseClassStatus(r.String(EntityClass, FieldStatus)),
			Capacity:  r.Int(EntityClass, FieldCapacity),
			Enrolled:  r.Int(EntityClass, FieldEnrolled),
		})
	}
	return out
}

func DecodeStudents(raws []Raw) []Student {
	out := make([]Student, 0, len(raws))
	for _, r := range raws {
		name := r.String(EntityStudent, FieldName)
		if surname := r.String(EntityStudent, FieldSurname); surname != "" {
			name = strings.TrimSpace(name + " " + surname)
		}
		out = append(out, Student{
			ID:             r.ID(EntityStudent, FieldID),
			Name:           name,
			EnrollmentCode: r.String(EntityStudent, FieldEnrollmentCode),
			SchoolID:       r.ID(EntityStudent, FieldSchoolID),
			Program:        r.String(EntityStudent, FieldProgram),
			Accepted:       r.Bool(EntityStudent, FieldAccepted),
		})
	}
	return out
}

func DecodeActivities(raws []Raw) []Activity {
	out := make([]Activity, 0, len(raws))
	for _, r := range raws {
		out = append(out, Activity{
			ID:              r.ID(EntityActivity, FieldID),
			Type:            ParseActivityType(r.String(EntityActivity, FieldType)),
			Date:            r.Time(EntityActivity, FieldDate),
			TeacherID:       r.ID(EntityActivity, FieldTeacherID),
			SchoolID:        r.ID(EntityActivity, FieldSchoolID),
			StudentsReached: r.Int(EntityActivity, FieldStudentsReached),
			Programs:        r.Strings(EntityActivity, FieldPrograms),
			Notes:           r.String(EntityActivity, FieldNotes),
			EvidenceURLs:    r.String(EntityActivity, FieldEvidenceURLs),
		})
	}
	return out
}

func DecodeGrades(raws []Raw) []Grade {
	out := make([]Grade, 0, len(raws))
	for _, r := range raws {
		grade := Grade{
			ID:        r.ID(EntityGrade, FieldID),
			ClassID:   r.ID(EntityGrade, FieldClassID),
			StudentID: r.ID(EntityGrade, FieldStudentID),
			Date:      r.Time(EntityGrade, FieldDate),
		}
		if score, ok := r.Float(EntityGrade, FieldScore); ok {
			grade.Score = &score
		}
		out = append(out, grade)
	}
	return out
}

// DecodeAttendance types attendance records. When the backend omits the roster size
// it is derived from the present list.
func DecodeAttendance(raws []Raw) []AttendanceRecord {
	out := make([]AttendanceRecord, 0, len(raws))
	for _, r := range raws {
		present := r.IDs(EntityAttendance, FieldPresentStudents)
		total := r.Int(EntityAttendance, FieldTotalStudents)
		if total < len(present) {
			total = len(present)
		}
		out = append(out, AttendanceRecord{
			ID:                r.ID(EntityAttendance, FieldID),
			ClassID:           r.ID(EntityAttendance, FieldClassID),
			TeacherID:         r.ID(EntityAttendance, FieldTeacherID),
			Date:              r.Time(EntityAttendance, FieldDate),
			PresentStudentIDs: present,
			TotalStudents:     total,
		})
	}
	return out
}
