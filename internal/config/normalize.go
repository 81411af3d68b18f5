package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.LockFile) != "" {
		if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
			return err
		}
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	c.Tools.MagickBinary = strings.TrimSpace(c.Tools.MagickBinary)
	c.Tools.SofficeBinary = strings.TrimSpace(c.Tools.SofficeBinary)
	c.Tools.PandocBinary = strings.TrimSpace(c.Tools.PandocBinary)

	users := c.Auth.Users[:0]
	for _, user := range c.Auth.Users {
		user.Name = strings.TrimSpace(user.Name)
		user.Token = strings.TrimSpace(user.Token)
		if user.Name == "" && user.Token == "" {
			continue
		}
		users = append(users, user)
	}
	c.Auth.Users = users

	return nil
}
