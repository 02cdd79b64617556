package installer

import (
	"errors"
	"net/url"
	"strconv"
)

func noTelegram(state *InstallState) bool {
	return !state.Telegram
}

func required(v string, _ *InstallState) error {
	if v == "" {
		return errors.New("a value is required")
	}
	return nil
}

func checkURL(v string, _ *InstallState) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter a full URL such as http://localhost:11434/v1")
	}
	return nil
}

// checkAPIKey allows an empty key only for self-hosted backends.
func checkAPIKey(v string, state *InstallState) error {
	if v == "" && state.Answers.BaseURL == "" {
		return errors.New("an API key is required for api.openai.com")
	}
	return nil
}

func checkOwnerID(v string, _ *InstallState) error {
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return errors.New("the owner ID is a number, ask @userinfobot for yours")
	}
	return nil
}
