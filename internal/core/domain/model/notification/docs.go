// Package notification holds the Notification entity, the template table that defines
// the content of every notification kind, and the Dispatcher that maps a transition's
// notify effects to notifications.
package notification
