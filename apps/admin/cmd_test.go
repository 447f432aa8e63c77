package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/grade"
	"github.com/gradefinalboss/gradeboss/core/user"
	"github.com/gradefinalboss/gradeboss/storage/database"
	inmemdb "github.com/gradefinalboss/gradeboss/storage/database/inmem"
	"github.com/gradefinalboss/gradeboss/testutil"
)

var usrRepo user.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	usrRepo = inmemdb.NewUserRepository(inmemdb.Open())

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	var out bytes.Buffer
	return &commandLine{
		usrRepo:    usrRepo,
		validate:   validate,
		translator: translator,
		out:        &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var gotDir string
	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		gotDir = dir
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_course_term", "sql"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
	assert.Equal(t, database.MigrationsDir, gotDir)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, out := setup(t)
	existing := testutil.CreateUser(t, usrRepo, "Old Name", "old@test.cd", "", false)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"adduser", "-email", "new@test.cd"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "new@test.cd", "-name", "New"}, wantErr: errHelp},
		{
			name: "invalid email", args: []string{"adduser", "-email", "lol", "-name", "New"}, extra: extra{pwd: "Sup3r-S3cret!"},
			wantErrStr: "email: email must be a valid email address",
		},
		{
			name: "weak password", args: []string{"adduser", "-email", "new@test.cd", "-name", "New"}, extra: extra{pwd: "12345678"},
			wantErrStr: "password: password cannot be entirely numeric",
		},
		{name: "created", args: []string{"adduser", "-email", "NEW@test.cd", "-name", "New"}, extra: extra{pwd: "Sup3r-S3cret!"}},
		{name: "updated", args: []string{"adduser", "-email", "old@test.cd", "-name", "New Name"}, extra: extra{pwd: "Sup3r-S3cret!"}},
	}
	for _, tt := range tests {
		tt := tt
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	ctx := context.Background()
	created, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "new@test.cd"})
	require.NoError(t, err)
	assert.Equal(t, "New", created.Name)
	assert.True(t, created.IsActive)
	assert.NoError(t, created.CheckPassword("Sup3r-S3cret!"))

	updated, err := usrRepo.GetUser(ctx, user.GetFilter{ID: existing.ID})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.True(t, updated.IsActive)
	assert.NoError(t, updated.CheckPassword("Sup3r-S3cret!"))

	assert.Contains(t, out.String(), "user new@test.cd created")
	assert.Contains(t, out.String(), "user old@test.cd updated")
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "User", "awe@test.cd", "mdr", true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "AWE@test.cd"}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		tt := tt
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.False(t, bytes.Equal(refreshed.PasswordHash, usr.PasswordHash))
	assert.NoError(t, refreshed.CheckPassword("lmao"))
}

func Test_commandLine_calc(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantOut string
		wantErr string
	}{
		{name: "no calculator", args: []string{"calc"}, wantErr: errHelp.Error()},
		{name: "unknown calculator", args: []string{"calc", "lol"}, wantErr: errHelp.Error()},
		{
			name:    "final",
			args:    []string{"calc", "final", "-current", "85", "-desired", "90", "-weight", "40"},
			wantOut: "Required final exam score: 97.50% (very_hard)\nPossible. But you'll need a lot of White Zero Sugar Monster Energy.\n",
		},
		{
			name:    "final: blank weight",
			args:    []string{"calc", "final", "-current", "85", "-desired", "90"},
			wantErr: "weight: this field is required",
		},
		{
			name:    "final: zero weight",
			args:    []string{"calc", "final", "-current", "85", "-desired", "90", "-weight", "0"},
			wantErr: "final_weight: must be greater than 0",
		},
		{name: "gpa: no course", args: []string{"calc", "gpa"}, wantErr: errHelp.Error()},
		{
			name:    "gpa",
			args:    []string{"calc", "gpa", "-course", "Algebra=A:4", "-course", "b:3", "-course", "Z:3"},
			wantOut: "Semester GPA: 3.57 (7 credits)\n  skipped course 3: unknown grade or no credits\n",
		},
		{
			name:    "gpa: cumulative",
			args:    []string{"calc", "gpa", "-course", "A:4", "-course", "B:3", "-prior-gpa", "3", "-prior-credits", "30"},
			wantOut: "Semester GPA: 3.57 (7 credits)\nCumulative GPA: 3.108\n",
		},
		{
			name:    "gpa: half prior",
			args:    []string{"calc", "gpa", "-course", "A:4", "-prior-gpa", "3"},
			wantErr: "prior: please enter both prior GPA and prior credits, or leave both blank",
		},
		{
			name:    "gpa: no eligible course",
			args:    []string{"calc", "gpa", "-course", "A:0"},
			wantErr: "not enough data: no course with a known grade and positive credits",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			err := cli.run(append([]string{"admin"}, tt.args...))
			if tt.wantErr != "" {
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErr, err.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func Test_courseRows_Set(t *testing.T) {
	rows := courseRows{rows: new(grade.Rows[grade.Course])}
	require.NoError(t, rows.Set("Algebra=A-:3"))
	require.NoError(t, rows.Set("B:x"))
	assert.Error(t, rows.Set("A"))

	assert.Equal(t, []grade.Course{
		{Name: "Algebra", Grade: "A-", Credits: 3},
		{Grade: "B", Credits: 0},
	}, rows.rows.Values())
	assert.Equal(t, "A-:3,B:0", rows.String())
}
