package mail

import (
	"bytes"
	"embed"
	htmltpl "html/template"
	texttpl "text/template"
)

//go:embed templates/*
var tplFS embed.FS

var (
	resetText = texttpl.Must(texttpl.ParseFS(tplFS, "templates/password_reset.txt"))
	resetHTML = htmltpl.Must(htmltpl.ParseFS(tplFS, "templates/password_reset.html"))
)

type PasswordResetData struct {
	Email    string
	FullName string
	OTP      string
	Link     string
}

const PasswordResetSubject = "Password Reset Email"

func PasswordReset(to string, d PasswordResetData) (Message, error) {
	var txt, html bytes.Buffer
	if err := resetText.Execute(&txt, d); err != nil {
		return Message{}, err
	}
	if err := resetHTML.Execute(&html, d); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: PasswordResetSubject, Text: txt.String(), HTML: html.String()}, nil
}
