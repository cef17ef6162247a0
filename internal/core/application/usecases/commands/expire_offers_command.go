package commands

import (
	"errors"

	"pharmacy/internal/pkg/guard"
)

var (
	ErrExpireOffersCommandIsNotConstructed = errors.New(
		"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
	)
	ErrFlagStaleArrivalsCommandIsNotConstructed = errors.New(
		"FlagStaleArrivalsCommand must be created via NewFlagStaleArrivalsCommand constructor",
	)
)

// ExpireOffersCommand times out every courier offer left unanswered for longer than
// the offer timeout.
//
// Example:
//
//	cmd := NewExpireOffersCommand()
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    log.Printf("some offers could not be expired: %v", err)
//	}
type ExpireOffersCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireOffersCommand() ExpireOffersCommand {
	return ExpireOffersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *ExpireOffersCommand) Validate() error {
	return c.guard.Validate(
		ErrExpireOffersCommandIsNotConstructed,
	)
}

// FlagStaleArrivalsCommand flags arrivals left unconfirmed by the patient for longer
// than the dispute grace window.
type FlagStaleArrivalsCommand struct {
	guard guard.ConstructorGuard
}

func NewFlagStaleArrivalsCommand() FlagStaleArrivalsCommand {
	return FlagStaleArrivalsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *FlagStaleArrivalsCommand) Validate() error {
	return c.guard.Validate(
		ErrFlagStaleArrivalsCommandIsNotConstructed,
	)
}
