package records

// Entity names one backend collection.
type Entity string

const (
	EntityTeacher    Entity = "teacher"
	EntitySchool     Entity = "school"
	EntityClass      Entity = "class"
	EntityStudent    Entity = "student"
	EntityActivity   Entity = "activity"
	EntityGrade      Entity = "grade"
	EntityAttendance Entity = "attendance"
)

// Field is a logical field name, independent of how a given endpoint spells it.
type Field string

const (
	FieldID              Field = "id"
	FieldName            Field = "name"
	FieldSurname         Field = "surname"
	FieldSpecialty       Field = "specialty"
	FieldCode            Field = "code"
	FieldSubject         Field = "subject"
	FieldDate            Field = "date"
	FieldStartTime       Field = "start_time"
	FieldEndTime         Field = "end_time"
	FieldTeacherID       Field = "teacher_id"
	FieldSchoolID        Field = "school_id"
	FieldClassID         Field = "class_id"
	FieldStudentID       Field = "student_id"
	FieldRoom            Field = "room"
	FieldStatus          Field = "status"
	FieldCapacity        Field = "capacity"
	FieldEnrolled        Field = "enrolled"
	FieldEnrollmentCode  Field = "enrollment_code"
	FieldProgram         Field = "program"
	FieldAccepted        Field = "accepted"
	FieldType            Field = "type"
	FieldStudentsReached Field = "students_reached"
	FieldPrograms        Field = "programs"
	FieldNotes           Field = "notes"
	FieldEvidenceURLs    Field = "evidence_urls"
	FieldScore           Field = "score"
	FieldPresentStudents Field = "present_students"
	FieldTotalStudents   Field = "total_students"
)

// aliases lists, per entity and logical field, every spelling the backend is known to
// use. The generic lower-case key comes first, the capitalized domain key second.
// A new naming convention is added here and nowhere else.
var aliases = map[Entity]map[Field][]string{
	EntityTeacher: {
		FieldID:        {"id", "TeacherId", "IdTeacher"},
		FieldName:      {"name", "FirstName"},
		FieldSurname:   {"surname", "LastName"},
		FieldSpecialty: {"specialty", "Specialty"},
	},
	EntitySchool: {
		FieldID:   {"id", "SchoolId", "IdSchool"},
		FieldName: {"name", "SchoolName"},
		FieldCode: {"code", "SchoolCode"},
	},
	EntityClass: {
		FieldID:        {"id", "ClassId", "IdClass"},
		FieldSubject:   {"subject", "Subject"},
		FieldDate:      {"date", "ClassDate"},
		FieldStartTime: {"start_time", "StartTime"},
		FieldEndTime:   {"end_time", "EndTime"},
		FieldTeacherID: {"teacher_id", "TeacherId", "teacher"},
		FieldRoom:      {"room", "Room"},
		FieldStatus:    {"status", "Status"},
		FieldCapacity:  {"capacity", "Capacity"},
		FieldEnrolled:  {"enrolled", "EnrolledCount", "enrolled_count"},
	},
	EntityStudent: {
		FieldID:             {"id", "StudentId", "IdStudent"},
		FieldName:           {"name", "FullName"},
		FieldSurname:        {"surname", "LastName"},
		FieldEnrollmentCode: {"enrollment_code", "EnrollmentCode"},
		FieldSchoolID:       {"school_id", "SchoolId", "school"},
		FieldProgram:        {"program", "ProgramOfInterest"},
		FieldAccepted:       {"accepted", "Accepted"},
	},
	EntityActivity: {
		FieldID:              {"id", "ActivityId", "IdActivity"},
		FieldType:            {"type", "ActivityType"},
		FieldDate:            {"date", "ActivityDate"},
		FieldTeacherID:       {"teacher_id", "TeacherId", "teacher"},
		FieldSchoolID:        {"school_id", "SchoolId", "school"},
		FieldStudentsReached: {"students_reached", "StudentsReached"},
		FieldPrograms:        {"programs", "PromotedPrograms"},
		FieldNotes:           {"notes", "Notes"},
		FieldEvidenceURLs:    {"evidence_urls", "EvidenceUrls"},
	},
	EntityGrade: {
		FieldID:        {"id", "GradeId", "IdGrade"},
		FieldClassID:   {"class_id", "ClassId", "class"},
		FieldStudentID: {"student_id", "StudentId", "student"},
		FieldScore:     {"score", "Score"},
		FieldDate:      {"date", "GradeDate"},
	},
	EntityAttendance: {
		FieldID:              {"id", "AttendanceId", "IdAttendance"},
		FieldClassID:         {"class_id", "ClassId", "class"},
		FieldTeacherID:       {"teacher_id", "TeacherId", "teacher"},
		FieldDate:            {"date", "AttendanceDate"},
		FieldPresentStudents: {"present_students", "PresentStudents"},
		FieldTotalStudents:   {"total_students", "TotalStudents"},
	},
}

// Keys returns the accepted spellings for field on entity. Fields missing from the
// table are looked up under their logical name only.
func Keys(entity Entity, field Field) []string {
	if keys, ok := aliases[entity][field]; ok {
		return keys
	}
	return []string{string(field)}
}
