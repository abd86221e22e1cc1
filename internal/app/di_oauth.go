package app

import (
	"fmt"

	oauthHTTP "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http"
	oauthRepository "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/repository"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// SecretService returns the secret service for client credential hashing.
func (c *Container) SecretService() oauthService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = oauthService.NewSecretService()
	})
	return c.secretService
}

// TokenService returns the token service for token generation and hashing.
func (c *Container) TokenService() oauthService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = oauthService.NewTokenService()
	})
	return c.tokenService
}

// UserCodeGenerator returns the user code generator.
func (c *Container) UserCodeGenerator() oauthService.UserCodeGenerator {
	c.userCodeGenInit.Do(func() {
		c.userCodeGen = oauthService.NewUserCodeGenerator(
			c.config.UserCodeCharset,
			c.config.UserCodeLength,
		)
	})
	return c.userCodeGen
}

// ClientRepository returns the client repository based on database driver.
func (c *Container) ClientRepository() (oauthUseCase.ClientRepository, error) {
	var err error
	c.clientRepositoryInit.Do(func() {
		c.clientRepository, err = c.initClientRepository()
		if err != nil {
			c.initErrors["clientRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientRepository"]; exists {
		return nil, storedErr
	}
	return c.clientRepository, nil
}

// DeviceCodeRepository returns the device code repository based on database driver.
func (c *Container) DeviceCodeRepository() (oauthUseCase.DeviceCodeRepository, error) {
	var err error
	c.deviceCodeRepositoryInit.Do(func() {
		c.deviceCodeRepository, err = c.initDeviceCodeRepository()
		if err != nil {
			c.initErrors["deviceCodeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceCodeRepository"]; exists {
		return nil, storedErr
	}
	return c.deviceCodeRepository, nil
}

// TokenRepository returns the token repository based on database driver.
func (c *Container) TokenRepository() (oauthUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepository"]; exists {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// PkceUseCase returns the PKCE validation use case.
func (c *Container) PkceUseCase() oauthUseCase.PkceUseCase {
	c.pkceUseCaseInit.Do(func() {
		c.pkceUseCase = oauthUseCase.NewPkceUseCase(c.config, c.Logger())
	})
	return c.pkceUseCase
}

// DeviceFlowUseCase returns the device flow use case.
func (c *Container) DeviceFlowUseCase() (oauthUseCase.DeviceFlowUseCase, error) {
	var err error
	c.deviceFlowUseCaseInit.Do(func() {
		c.deviceFlowUseCase, err = c.initDeviceFlowUseCase()
		if err != nil {
			c.initErrors["deviceFlowUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceFlowUseCase"]; exists {
		return nil, storedErr
	}
	return c.deviceFlowUseCase, nil
}

// RevocationUseCase returns the token revocation use case.
func (c *Container) RevocationUseCase() (oauthUseCase.RevocationUseCase, error) {
	var err error
	c.revocationUseCaseInit.Do(func() {
		c.revocationUseCase, err = c.initRevocationUseCase()
		if err != nil {
			c.initErrors["revocationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revocationUseCase"]; exists {
		return nil, storedErr
	}
	return c.revocationUseCase, nil
}

// IntrospectionUseCase returns the token introspection use case.
func (c *Container) IntrospectionUseCase() (oauthUseCase.IntrospectionUseCase, error) {
	var err error
	c.introspectionUseCaseInit.Do(func() {
		c.introspectionUseCase, err = c.initIntrospectionUseCase()
		if err != nil {
			c.initErrors["introspectionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["introspectionUseCase"]; exists {
		return nil, storedErr
	}
	return c.introspectionUseCase, nil
}

// DeviceAuthorizationHandler returns the HTTP handler for device authorization requests.
func (c *Container) DeviceAuthorizationHandler() (*oauthHTTP.DeviceAuthorizationHandler, error) {
	var err error
	c.deviceAuthorizationHandlerInit.Do(func() {
		c.deviceAuthorizationHandler, err = c.initDeviceAuthorizationHandler()
		if err != nil {
			c.initErrors["deviceAuthorizationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceAuthorizationHandler"]; exists {
		return nil, storedErr
	}
	return c.deviceAuthorizationHandler, nil
}

// TokenHandler returns the HTTP handler for token requests.
func (c *Container) TokenHandler() (*oauthHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// DeviceVerificationHandler returns the HTTP handler for user code verification.
func (c *Container) DeviceVerificationHandler() (*oauthHTTP.DeviceVerificationHandler, error) {
	var err error
	c.deviceVerificationHandlerInit.Do(func() {
		c.deviceVerificationHandler, err = c.initDeviceVerificationHandler()
		if err != nil {
			c.initErrors["deviceVerificationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceVerificationHandler"]; exists {
		return nil, storedErr
	}
	return c.deviceVerificationHandler, nil
}

// RevocationHandler returns the HTTP handler for token revocation.
func (c *Container) RevocationHandler() (*oauthHTTP.RevocationHandler, error) {
	var err error
	c.revocationHandlerInit.Do(func() {
		c.revocationHandler, err = c.initRevocationHandler()
		if err != nil {
			c.initErrors["revocationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revocationHandler"]; exists {
		return nil, storedErr
	}
	return c.revocationHandler, nil
}

// IntrospectionHandler returns the HTTP handler for token introspection.
func (c *Container) IntrospectionHandler() (*oauthHTTP.IntrospectionHandler, error) {
	var err error
	c.introspectionHandlerInit.Do(func() {
		c.introspectionHandler, err = c.initIntrospectionHandler()
		if err != nil {
			c.initErrors["introspectionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["introspectionHandler"]; exists {
		return nil, storedErr
	}
	return c.introspectionHandler, nil
}

// initClientRepository creates the client repository based on the database driver.
func (c *Container) initClientRepository() (oauthUseCase.ClientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for client repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return oauthRepository.NewPostgreSQLClientRepository(db), nil
	case "mysql":
		return oauthRepository.NewMySQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDeviceCodeRepository creates the device code repository based on the database driver.
func (c *Container) initDeviceCodeRepository() (oauthUseCase.DeviceCodeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for device code repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return oauthRepository.NewPostgreSQLDeviceCodeRepository(db), nil
	case "mysql":
		return oauthRepository.NewMySQLDeviceCodeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenRepository creates the token repository based on the database driver.
func (c *Container) initTokenRepository() (oauthUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return oauthRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return oauthRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDeviceFlowUseCase creates the device flow use case with all its dependencies.
func (c *Container) initDeviceFlowUseCase() (oauthUseCase.DeviceFlowUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for device flow use case: %w", err)
	}

	clientRepository, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for device flow use case: %w", err)
	}

	deviceCodeRepository, err := c.DeviceCodeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device code repository for device flow use case: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for device flow use case: %w", err)
	}

	baseUseCase := oauthUseCase.NewDeviceFlowUseCase(
		c.config,
		txManager,
		clientRepository,
		deviceCodeRepository,
		tokenRepository,
		c.TokenService(),
		c.UserCodeGenerator(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for device flow use case: %w", err)
		}
		return oauthUseCase.NewDeviceFlowUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initRevocationUseCase creates the revocation use case with all its dependencies.
func (c *Container) initRevocationUseCase() (oauthUseCase.RevocationUseCase, error) {
	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for revocation use case: %w", err)
	}

	baseUseCase := oauthUseCase.NewRevocationUseCase(
		tokenRepository,
		c.TokenService(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for revocation use case: %w", err)
		}
		return oauthUseCase.NewRevocationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initIntrospectionUseCase creates the introspection use case with all its dependencies.
func (c *Container) initIntrospectionUseCase() (oauthUseCase.IntrospectionUseCase, error) {
	clientRepository, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for introspection use case: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for introspection use case: %w", err)
	}

	baseUseCase := oauthUseCase.NewIntrospectionUseCase(
		c.config,
		clientRepository,
		tokenRepository,
		c.TokenService(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for introspection use case: %w", err)
		}
		return oauthUseCase.NewIntrospectionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initDeviceAuthorizationHandler creates the device authorization HTTP handler.
func (c *Container) initDeviceAuthorizationHandler() (*oauthHTTP.DeviceAuthorizationHandler, error) {
	deviceFlowUseCase, err := c.DeviceFlowUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device flow use case for device authorization handler: %w", err)
	}

	clientRepository, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for device authorization handler: %w", err)
	}

	return oauthHTTP.NewDeviceAuthorizationHandler(
		deviceFlowUseCase,
		c.PkceUseCase(),
		clientRepository,
		c.Logger(),
	), nil
}

// initTokenHandler creates the token HTTP handler.
func (c *Container) initTokenHandler() (*oauthHTTP.TokenHandler, error) {
	deviceFlowUseCase, err := c.DeviceFlowUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device flow use case for token handler: %w", err)
	}

	return oauthHTTP.NewTokenHandler(deviceFlowUseCase, c.Logger()), nil
}

// initDeviceVerificationHandler creates the device verification HTTP handler.
func (c *Container) initDeviceVerificationHandler() (*oauthHTTP.DeviceVerificationHandler, error) {
	deviceFlowUseCase, err := c.DeviceFlowUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device flow use case for device verification handler: %w", err)
	}

	clientRepository, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for device verification handler: %w", err)
	}

	return oauthHTTP.NewDeviceVerificationHandler(deviceFlowUseCase, clientRepository, c.Logger()), nil
}

// initRevocationHandler creates the revocation HTTP handler.
func (c *Container) initRevocationHandler() (*oauthHTTP.RevocationHandler, error) {
	revocationUseCase, err := c.RevocationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get revocation use case for revocation handler: %w", err)
	}

	return oauthHTTP.NewRevocationHandler(revocationUseCase, c.config, c.Logger()), nil
}

// initIntrospectionHandler creates the introspection HTTP handler.
func (c *Container) initIntrospectionHandler() (*oauthHTTP.IntrospectionHandler, error) {
	introspectionUseCase, err := c.IntrospectionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get introspection use case for introspection handler: %w", err)
	}

	return oauthHTTP.NewIntrospectionHandler(introspectionUseCase, c.config, c.Logger()), nil
}
