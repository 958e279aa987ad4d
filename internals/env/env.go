package env

import (
	"log"
	"strconv"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zenv"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type EnvStruct struct {
	HOME                 string `zog:"HOME"`
	PORT                 int    `zog:"DEVTASKFLOW_PORT"`
	MODE                 string `zog:"DEVTASKFLOW_ENV"`
	GITHUB_CLIENT_ID     string `zog:"GITHUB_CLIENT_ID"`
	GITHUB_CLIENT_SECRET string `zog:"GITHUB_CLIENT_SECRET"`
	CALLBACK_URL         string `zog:"DEVTASKFLOW_CALLBACK_URL"`
	FRONTEND_URL         string `zog:"FRONTEND_URL"`
	SESSION              string `zog:"DEVTASKFLOW_SESSION"`
	LISTEN_ADDR          string
	LISTEN_PROT          string
	BASE_URL             string
}

var env *EnvStruct

var EnvSchema = z.Struct(z.Shape{
	"HOME":                 z.String(),
	"PORT":                 z.Int().Default(5000),
	"MODE":                 z.String().Default(ModeDevelopment).OneOf([]string{ModeDevelopment, ModeProduction}),
	"GITHUB_CLIENT_ID":     z.String().Optional(),
	"GITHUB_CLIENT_SECRET": z.String().Optional(),
	"CALLBACK_URL":         z.String().Optional().Trim(),
	"FRONTEND_URL":         z.String().Default("http://localhost:3000").Trim(),
	"SESSION":              z.String().Optional().Trim(),
})

func Get() *EnvStruct {
	if env == nil {
		env = &EnvStruct{}
		errs := EnvSchema.Parse(zenv.NewDataProvider(), env)
		if errs != nil {
			log.Fatal("[DevTaskFlow] Failed to parse environment variables", errs)
		}

		env.LISTEN_PROT = "http://"
		env.LISTEN_ADDR = "localhost:" + strconv.Itoa(env.PORT)
		env.BASE_URL = env.LISTEN_PROT + env.LISTEN_ADDR
		if env.CALLBACK_URL == "" {
			env.CALLBACK_URL = env.BASE_URL + "/auth/github/callback"
		}
	}
	return env
}

func (e *EnvStruct) IsProduction() bool {
	return e.MODE == ModeProduction
}
