// Package grade implements the grade calculation engine: required final exam score,
// weighted course grade, semester GPA and cumulative GPA.
//
// Every function is pure: inputs are validated, nothing is shared between calls and
// results are rounded half away from zero. Results outside the natural range
// (a required score above 100 or below 0) are returned as-is, they are not errors.
package grade
