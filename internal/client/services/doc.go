// Package services holds the application core: credentials, tasks and toast
// notifications, plus demo seeding, encrypted backups and the access guard.
//
// Services are constructed once at start-up and passed to the presentation
// layer explicitly. Each keeps an in-memory projection of its state, writes
// every change through to the Store first and then publishes the new state to
// subscribers. Subscribers always receive the current value on Subscribe.
//
// AuthService and TaskService expect to be driven from a single goroutine
// (the REPL). NotificationService is safe for concurrent use because its
// expiry timers fire on their own goroutines.
package services
