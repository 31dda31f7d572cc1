package api

import "context"

func withStudentID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, studentIDKey, id)
}

// studentID extracts the resolved student ID set by requireStudent.
func studentID(ctx context.Context) int64 {
	id, _ := ctx.Value(studentIDKey).(int64)
	return id
}
