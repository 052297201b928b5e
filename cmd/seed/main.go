package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/config"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/repository"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/seed"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/utils"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var week string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机一周草稿, 3: 插入随机请假, 4: 从 CSV 导入草稿)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量，插入员工时默认使用配置中的数量")
	flag.StringVar(&week, "week", "", "插入草稿或请假所在的周（该周任意一天，YYYY-MM-DD），默认为本周")
	flag.StringVar(&file, "file", "./internal/seed/data/drafts.csv", "要导入的 CSV 文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	resolver, err := calendar.LoadResolver(cfg.Schedule.TimeZone)
	if err != nil {
		logger.Error("无法加载时区", "error", err)
		os.Exit(1)
	}

	weekStart := resolver.WeekOf(time.Now())
	if week != "" {
		d, err := calendar.ParseDate(week)
		if err != nil {
			logger.Error("周无效", "week", week, "error", err)
			os.Exit(1)
		}
		weekStart = d.Monday()
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository 和排班引擎
	repo := repository.NewRepository(cfg, dbpool)
	engine := scheduler.NewEngine(repo, resolver, time.Now)

	ctx = context.Background()

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			n = cfg.Seed.EmployeeCount
		}

		today := resolver.LocalDate(time.Now())
		cnt := 0
		for i := 0; i < n; i++ {
			employee := utils.GenerateRandomEmployee()
			if err := repo.CreateEmployee(ctx, employee); err != nil {
				var pgErr *pgconn.PgError
				switch {
				case errors.As(err, &pgErr) && pgErr.ConstraintName == "employees_username_key":
					// 随机生成的用户名重复了，跳过即可
					slog.Warn("用户名已存在", slog.String("username", employee.Username))
				default:
					slog.Error("无法插入员工", slog.String("error", err.Error()))
				}
				continue
			}

			rate := utils.GenerateRandomHourlyRate(cfg.Seed.HourlyRateMin, cfg.Seed.HourlyRateMax)
			if err := repo.CreatePayRate(ctx, employee.ID, rate, today); err != nil {
				slog.Error("无法插入时薪", slog.String("error", err.Error()))
				continue
			}

			for _, a := range utils.GenerateRandomAvailability(employee.ID) {
				if err := utils.ValidateAvailability(a); err != nil {
					slog.Error("生成的可用时间无效", slog.String("error", err.Error()))
					continue
				}
				if err := repo.CreateAvailability(ctx, a); err != nil {
					slog.Error("无法插入可用时间", slog.String("error", err.Error()))
				}
			}

			cnt++
		}

		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 2:
		employees, err := repo.LoadEmployees(ctx, domain.EmployeeFilter{ActiveOnly: true})
		if err != nil {
			slog.Error("无法获取在职员工", slog.String("error", err.Error()))
			return
		}
		ids := make([]int64, 0, len(employees))
		for _, e := range employees {
			ids = append(ids, e.ID)
		}

		// 经过排班引擎创建，与请假冲突的班次不会被插入
		cnt := 0
		for _, details := range utils.GenerateRandomWeekShifts(resolver, weekStart, ids) {
			if _, err := engine.CreateShift(ctx, details); err != nil {
				slog.Warn("无法插入草稿班次", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入草稿班次成功", slog.String("week", weekStart.String()), slog.Int("count", cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的请假数量")
			return
		}

		employees, err := repo.LoadEmployees(ctx, domain.EmployeeFilter{ActiveOnly: true})
		if err != nil {
			slog.Error("无法获取在职员工", slog.String("error", err.Error()))
			return
		}
		if len(employees) == 0 {
			slog.Error("没有在职员工，请先插入员工")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			employee := employees[i%len(employees)]
			notice := utils.GenerateRandomTimeOff(resolver, weekStart, employee.ID)
			if err := repo.CreateTimeOff(ctx, notice); err != nil {
				slog.Error("无法插入请假", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入请假成功", slog.String("week", weekStart.String()), slog.Int("count", cnt))
	case 4:
		f, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", "file", file, "error", err)
			return
		}
		defer f.Close()

		employees, err := repo.LoadEmployees(ctx, domain.EmployeeFilter{})
		if err != nil {
			slog.Error("无法获取员工", slog.String("error", err.Error()))
			return
		}

		result, err := seed.ImportDrafts(ctx, engine, employees, f)
		if err != nil {
			slog.Error("导入草稿失败", "error", err)
			return
		}

		slog.Info("导入草稿完成", slog.Int("imported", result.Imported), slog.Int("skipped", result.Skipped))
	default:
		slog.Error("指定的操作非法")
	}
}
