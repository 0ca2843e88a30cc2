package utils

type contextKey string

// The user id lives in the logger package so request logs can carry it.
const UserEmailKey contextKey = "email"
