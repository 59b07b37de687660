package main

import (
	"os"

	_ "github.com/campusconnect-nz/campus-api/docs"
)

//	@title			Campus Connect NZ API
//	@version		1.0
//	@description	Courses, reviews and shared notes for New Zealand university students.
//	@termsOfService	http://swagger.io/terms/
//	@contact.name	Campus Connect NZ
//	@contact.email	dev@campusconnect.nz
//	@BasePath		/api

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT authorization header
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
