// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authrs realizes the accounts resource, covering the
// registration, password and identity provider logins, logout, and
// the password reset REST APIs.
package authrs

import (
	"errors"
	"net/http"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/session"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/appuc"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stateCookie   = "fm_oauth_state"
	stateLifetime = 10 * time.Minute
)

var errInvalidState = errors.New("invalid login state")

type resource struct {
	app      *appuc.UseCase
	sessions *session.Manager
	secure   bool
}

// Register instantiates a resource adapting the auth use case with
// the relevant REST APIs including:
//  1. GET and POST /login, POST /register, and GET /logout,
//  2. GET /google_login and /google_callback for the identity
//     provider login,
//  3. POST /forgot-password and /reset-password/:token.
//
// The credential accepting routes are wrapped by the throttle
// middlewares (e.g., a rate limiter).
func Register(
	r gin.IRouter,
	app *appuc.UseCase,
	sm *session.Manager,
	secure bool,
	throttle ...gin.HandlerFunc,
) {
	rs := &resource{app: app, sessions: sm, secure: secure}
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, throttle...), h)
	}
	r.GET("login", rs.LoginPage)
	r.POST("login", limited(rs.Login)...)
	r.POST("register", limited(rs.Register)...)
	r.GET("logout", rs.Logout)
	r.GET("google_login", rs.GoogleLogin)
	r.GET("google_callback", rs.GoogleCallback)
	r.POST("forgot-password", limited(rs.ForgotPassword)...)
	r.POST("reset-password/:token", limited(rs.ResetPassword)...)
}

func (rs *resource) LoginPage(c *gin.Context) {
	if s := session.Current(c); s != nil {
		c.Redirect(http.StatusFound, s.Role.DashboardPath())
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"next": session.SafeNext(c.Query("next")),
	})
}

func (rs *resource) Login(c *gin.Context) {
	req := &loginReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	u, err := rs.app.AuthUseCase().Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if !rs.signIn(c, u) {
		return
	}
	redirect := session.SafeNext(req.Next)
	if redirect == "" {
		redirect = u.Role.DashboardPath()
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"message":  "Welcome back, " + u.Username + "!",
		"user":     u,
		"redirect": redirect,
	})
}

// signIn issues a new session for u, dropping the cart of a previous
// session of this browser.
func (rs *resource) signIn(c *gin.Context, u *model.User) bool {
	if old := session.Current(c); old != nil {
		rs.clearCart(c, old.ID)
	}
	if err := rs.sessions.Issue(c, u.Session("")); err != nil {
		serdser.SerErr(c, err)
		return false
	}
	return true
}

func (rs *resource) clearCart(c *gin.Context, sid string) {
	if err := rs.app.CartUseCase().Clear(c, sid); err != nil {
		log.Warn(c, "clearing cart failed", log.Err("err", err))
	}
}

func (rs *resource) Register(c *gin.Context) {
	req := &registerReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	u, err := rs.app.AuthUseCase().Register(c, req.toModel())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusCreated, gin.H{
		"message":  "Registration successful! Please log in.",
		"user":     u,
		"redirect": session.LoginPath,
	})
}

func (rs *resource) Logout(c *gin.Context) {
	if s := session.Current(c); s != nil {
		rs.clearCart(c, s.ID)
	}
	rs.sessions.Clear(c)
	c.Redirect(http.StatusFound, session.HomePath)
}

func (rs *resource) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	u, err := rs.app.AuthUseCase().IdentityURL(state)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		stateCookie, state, int(stateLifetime/time.Second),
		"/", "", rs.secure, true,
	)
	c.Redirect(http.StatusFound, u)
}

func (rs *resource) GoogleCallback(c *gin.Context) {
	state, _ := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/", "", rs.secure, true)
	req := &callbackReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	if state == "" || req.State != state {
		serdser.SerErr(c, cerr.Authentication(errInvalidState))
		return
	}
	u, err := rs.app.AuthUseCase().LoginWithIdentity(c, req.Code)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if !rs.signIn(c, u) {
		return
	}
	c.Redirect(http.StatusFound, u.Role.DashboardPath())
}

func (rs *resource) ForgotPassword(c *gin.Context) {
	req := &forgotReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	if err := rs.app.AuthUseCase().RequestPasswordReset(c, req.Email); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Message(
		c, "If that email exists, a password reset link has been sent.",
	)
}

func (rs *resource) ResetPassword(c *gin.Context) {
	req := &resetReq{}
	if !serdser.Bind(c, req, nil) {
		return
	}
	err := rs.app.AuthUseCase().ResetPassword(
		c, c.Param("token"), req.Password, req.ConfirmPassword,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.OK(c, http.StatusOK, gin.H{
		"message":  "Your password has been reset. Please log in.",
		"redirect": session.LoginPath,
	})
}
