package service

import (
	"fmt"

	apperrors "giveaway-bot/internal/common/errors"
)

// Errors reported to organizers. The message is the text they see.

func errNoPriorGiveaway(channelID string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeNoPriorGiveaway, "No ended giveaway found in this channel to reroll.").
		WithDetail("channel_id", channelID)
}

func errDirectMessagesClosed(err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.ErrCodeForbidden, "I couldn't send you a DM. Please enable DMs from server members.")
}

func errUnresolvableIdentity(userID string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUnresolvableIdentity, fmt.Sprintf("Couldn't find user with ID %s in the server.", userID)).
		WithDetail("user_id", userID)
}

func errInsufficientWinners(need, got int) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeInsufficientWinners, fmt.Sprintf("Need at least %d valid winners. Please provide more user IDs.", need)).
		WithDetail("need", need).
		WithDetail("got", got)
}
