package model

import "time"

type RegisterDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

type RegisterMessage struct {
	Tilda         string         `json:"~"`
	Name          string         `json:"name"`
	ID            string         `json:"unique_id"`
	StateTopic    string         `json:"state_topic"`
	ValueTemplate string         `json:"value_template"`
	Device        RegisterDevice `json:"device"`
}

type Device struct {
	Host  string
	Model string
}

// Update is one write to a display element, as handed to publishers.
type Update struct {
	Element   string    `json:"element"`
	Property  Property  `json:"property"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}
