// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the identity collaborator: it turns credentials into a
verified caller id. The ranking engine never sees credentials, only the
id this package resolves.

# Bearer Tokens

Tokens are HS256 JWTs whose subject is the user id:

	tokens := auth.NewTokenService(secret, time.Hour)
	token, err := tokens.Issue(userID)
	userID, err := tokens.Verify(token)

Verify rejects other signing methods, bad signatures and expired tokens
with ErrInvalidToken.

# Passwords

Passwords are hashed with bcrypt:

	hashed, err := auth.HashPassword(password)
	ok := auth.CheckPassword(password, hashed)

# Accounts

Service handles registration and login on top of a UserStore:

	u, err := svc.Register(ctx, models.RegisterRequest{...})
	token, err := svc.Login(ctx, emailOrUsername, password)

Registration requires a valid email, a 3-50 character username and a
password of at least 8 characters. Email and username are unique.
*/
package auth
