// Package models defines the payloads exchanged with the knowledge-base
// backend. Field names follow the backend's JSON.
package models
