// Package vtpl 提供 VT 模板的展开与解析，把分层的配置片段合并为扁平、去重、
// 参数已替换的行序列（例如 VASP 的 INCAR/KPOINTS 输入）。
//
// 处理分两步：
//
//  1. [Expander] 递归展开 %INCLUDE 指令，并替换位置参数 %{1}、%{2}…
//  2. [Resolve] 按 TAG 去重（保留首次出现的位置、最后一次出现的内容），
//     收集 %NAME=value 定义，再把 %{NAME} 引用替换为定义值
//
// # 语法
//
//	## 模板私有注释，不会输出
//	#! 命令行指令注释，不会输出
//	# 普通注释，原样保留
//	%INCLUDE = relax(520,0.01)   # 引入 relax.vt，%{1}=520 %{2}=0.01
//	ENCUT = %{1}                 # 位置参数，仅在被引入的片段内有意义
//	%SIGMA=0.05                  # 参数定义
//	SIGMA = %{SIGMA}             # 参数引用，定义可以在引用之后
//
// # 容错策略
//
// 默认宽松：找不到的 %INCLUDE、格式错误的指令、越界的位置参数、循环引入都不会中断处理，
// 而是作为 [Diagnostic] 收集到 [Result] 中并写入日志。
// 使用 [WithStrict] 时 [Render] 会在存在诊断信息时返回 error。
//
// # 快速开始
//
//	finder := &vtpl.SearchFinder{EnvVar: "VTPATH", Ext: ".vt"}
//	res, err := vtpl.Render(vtpl.SplitLines(content), finder, nil)
//	if err != nil {
//	    return err
//	}
//	_ = vtpl.WriteLines(os.Stdout, res.Lines)
package vtpl
